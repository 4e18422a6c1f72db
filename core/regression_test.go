package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func returnTable(market string, columns map[string][]float64) *PriceTable {
	symbols := make([]string, 0, len(columns))
	symbols = append(symbols, market)
	for symbol := range columns {
		if symbol != market {
			symbols = append(symbols, symbol)
		}
	}
	return &PriceTable{Market: market, Symbols: symbols, Columns: columns}
}

func Test_FitMarketModel_RecoversPerfectLine(t *testing.T) {
	// y = 2x + 3, no noise
	x := []float64{-3, -1, 0, 1, 2, 4, 7}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 3
	}

	res, err := FitMarketModel(returnTable("SPY", map[string][]float64{"SPY": x, "AAPL": y}), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 2.0, res.Beta, 1e-9)
	require.InDelta(t, 3.0, res.Alpha, 1e-9)
}

func Test_FitMarketModel_RowPairingMatters(t *testing.T) {
	x := []float64{0, 5, -4, 2, 1}
	y := []float64{0, 10, -10, 3, 2}

	base, err := FitMarketModel(returnTable("SPY", map[string][]float64{"SPY": x, "AAPL": y}), "AAPL")
	require.NoError(t, err)

	// reordering both columns identically must not change the fit
	xShuffled := []float64{-4, 1, 0, 5, 2}
	yShuffled := []float64{-10, 2, 0, 10, 3}
	same, err := FitMarketModel(returnTable("SPY", map[string][]float64{"SPY": xShuffled, "AAPL": yShuffled}), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, base.Beta, same.Beta, 1e-12)
	require.InDelta(t, base.Alpha, same.Alpha, 1e-12)

	// reordering only one column breaks the pairing and must change the fit
	broken, err := FitMarketModel(returnTable("SPY", map[string][]float64{"SPY": xShuffled, "AAPL": y}), "AAPL")
	require.NoError(t, err)
	require.NotEqual(t, base.Beta, broken.Beta)
}

func Test_FitMarketModel_TooFewRows(t *testing.T) {
	_, err := FitMarketModel(returnTable("SPY", map[string][]float64{"SPY": {0}, "AAPL": {0}}), "AAPL")
	require.ErrorIs(t, err, ErrInsufficientData)
}

func Test_FitMarketModel_ConstantMarket(t *testing.T) {
	_, err := FitMarketModel(returnTable("SPY", map[string][]float64{"SPY": {1, 1, 1}, "AAPL": {0, 2, 4}}), "AAPL")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func Test_FitMarketModel_MissingColumns(t *testing.T) {
	table := returnTable("SPY", map[string][]float64{"SPY": {0, 1, 2}})
	_, err := FitMarketModel(table, "AAPL")
	require.ErrorIs(t, err, ErrInvalidInput)

	table = returnTable("SPY", map[string][]float64{"AAPL": {0, 1, 2}})
	_, err = FitMarketModel(table, "AAPL")
	require.ErrorIs(t, err, ErrInvalidInput)
}

// The documented three day scenario: asset returns [0, 10, -10] against
// market returns [0, 5, -4]. The closed form least squares solution is
// beta = 135/61, alpha = -45/61.
func Test_FitMarketModel_ReferenceScenario(t *testing.T) {
	res, err := FitMarketModel(returnTable("SPY", map[string][]float64{
		"SPY":  {0, 5, -4},
		"AAPL": {0, 10, -10},
	}), "AAPL")
	require.NoError(t, err)
	require.InDelta(t, 135.0/61.0, res.Beta, 1e-9)
	require.InDelta(t, -45.0/61.0, res.Alpha, 1e-9)
}
