package core

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		t.Fatalf("bad test date %s: %v", s, err)
	}
	return d
}

func days(t *testing.T, dates ...string) []time.Time {
	t.Helper()
	res := make([]time.Time, len(dates))
	for i, s := range dates {
		res[i] = day(t, s)
	}
	return res
}

func Test_Align_InnerJoinsOnDate(t *testing.T) {
	market := &TimeSeries{
		Symbol: "SPY",
		Dates:  days(t, "2025-01-02", "2025-01-03", "2025-01-06", "2025-01-07"),
		Values: []float64{100, 105, 100.8, 102},
	}
	asset := &TimeSeries{
		Symbol: "AAPL",
		Dates:  days(t, "2025-01-02", "2025-01-06", "2025-01-07"),
		Values: []float64{200, 210, 198},
	}

	table, err := Align(market, []*TimeSeries{asset})
	require.NoError(t, err)

	// 2025-01-03 is missing from AAPL so it must be dropped everywhere
	require.Equal(t, days(t, "2025-01-02", "2025-01-06", "2025-01-07"), table.Dates)
	require.Equal(t, []float64{100, 100.8, 102}, table.Columns["SPY"])
	require.Equal(t, []float64{200, 210, 198}, table.Columns["AAPL"])
	require.Equal(t, "SPY", table.Market)
	require.Equal(t, []string{"SPY", "AAPL"}, table.Symbols)
}

func Test_Align_RejectsNonPositivePrices(t *testing.T) {
	market := &TimeSeries{
		Symbol: "SPY",
		Dates:  days(t, "2025-01-02", "2025-01-03"),
		Values: []float64{100, 105},
	}
	asset := &TimeSeries{
		Symbol: "AAPL",
		Dates:  days(t, "2025-01-02", "2025-01-03"),
		Values: []float64{0, 210},
	}

	_, err := Align(market, []*TimeSeries{asset})
	require.ErrorIs(t, err, ErrInvalidInput)

	asset.Values = []float64{-5, 210}
	_, err = Align(market, []*TimeSeries{asset})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func Test_Align_RejectsDuplicateAndUnorderedSeries(t *testing.T) {
	market := &TimeSeries{
		Symbol: "SPY",
		Dates:  days(t, "2025-01-02", "2025-01-03"),
		Values: []float64{100, 105},
	}

	dup := &TimeSeries{
		Symbol: "SPY",
		Dates:  days(t, "2025-01-02", "2025-01-03"),
		Values: []float64{1, 2},
	}
	_, err := Align(market, []*TimeSeries{dup})
	require.ErrorIs(t, err, ErrInvalidInput)

	unordered := &TimeSeries{
		Symbol: "AAPL",
		Dates:  days(t, "2025-01-03", "2025-01-02"),
		Values: []float64{1, 2},
	}
	_, err = Align(market, []*TimeSeries{unordered})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func Test_Align_NoOverlapIsInsufficientData(t *testing.T) {
	market := &TimeSeries{
		Symbol: "SPY",
		Dates:  days(t, "2025-01-02"),
		Values: []float64{100},
	}
	asset := &TimeSeries{
		Symbol: "AAPL",
		Dates:  days(t, "2025-01-03"),
		Values: []float64{200},
	}

	_, err := Align(market, []*TimeSeries{asset})
	require.ErrorIs(t, err, ErrInsufficientData)
}

func Test_Normalize_EveryColumnStartsAtOne(t *testing.T) {
	table := alignedTable(t)

	normalized, err := table.Normalize()
	require.NoError(t, err)

	for _, symbol := range normalized.Symbols {
		require.Equalf(t, 1.0, normalized.Columns[symbol][0], "first row of %s", symbol)
	}

	// source table is untouched
	require.Equal(t, 100.0, table.Columns["SPY"][0])
}

func Test_Normalize_ExemptColumnIsUntouched(t *testing.T) {
	table := alignedTable(t)

	normalized, err := table.Normalize(table.Market)
	require.NoError(t, err)

	require.Equal(t, table.Columns["SPY"], normalized.Columns["SPY"])
	require.Equal(t, 1.0, normalized.Columns["AAPL"][0])
}

func Test_DailyReturns_FirstRowIsZeroNeverNaN(t *testing.T) {
	table := alignedTable(t)

	returns, err := table.DailyReturns()
	require.NoError(t, err)

	for _, symbol := range returns.Symbols {
		col := returns.Columns[symbol]
		require.Equalf(t, 0.0, col[0], "first row of %s", symbol)
		for i, v := range col {
			require.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "row %d of %s is not finite", i, symbol)
		}
	}
}

func Test_DailyReturns_PercentChange(t *testing.T) {
	table := alignedTable(t)

	returns, err := table.DailyReturns()
	require.NoError(t, err)

	require.InDelta(t, 10.0, returns.Columns["AAPL"][1], 1e-12)
	require.InDelta(t, -10.0, returns.Columns["AAPL"][2], 1e-12)
	require.InDelta(t, 5.0, returns.Columns["SPY"][1], 1e-12)
	require.InDelta(t, -4.0, returns.Columns["SPY"][2], 1e-12)
}

// alignedTable is the three day fixture used throughout: asset moves +10%
// then -10%, market +5% then -4%.
func alignedTable(t *testing.T) *PriceTable {
	t.Helper()

	market := &TimeSeries{
		Symbol: "SPY",
		Dates:  days(t, "2025-01-02", "2025-01-03", "2025-01-06"),
		Values: []float64{100, 105, 100.8},
	}
	asset := &TimeSeries{
		Symbol: "AAPL",
		Dates:  days(t, "2025-01-02", "2025-01-03", "2025-01-06"),
		Values: []float64{100, 110, 99},
	}

	table, err := Align(market, []*TimeSeries{asset})
	if err != nil {
		t.Fatalf("error aligning fixture table: %v", err)
	}
	return table
}

func Test_Normalize_EmptyTable(t *testing.T) {
	table := &PriceTable{Market: "SPY", Symbols: []string{"SPY"}, Columns: map[string][]float64{"SPY": {}}}
	_, err := table.Normalize()
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected insufficient data error, got %v", err)
	}
}
