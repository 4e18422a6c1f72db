package core

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// RegressionResult holds the fitted market model for one asset:
// assetReturn = Alpha + Beta * marketReturn.
type RegressionResult struct {
	Beta  float64
	Alpha float64
}

// FitMarketModel fits an ordinary least squares line of the asset's daily
// returns against the market's. Every row of the return table participates,
// including the defined-zero first row.
func FitMarketModel(returns *PriceTable, asset string) (RegressionResult, error) {
	x, ok := returns.Columns[returns.Market]
	if !ok {
		return RegressionResult{}, fmt.Errorf("%w: market column %q not present", ErrInvalidInput, returns.Market)
	}

	y, ok := returns.Columns[asset]
	if !ok {
		return RegressionResult{}, fmt.Errorf("%w: asset column %q not present", ErrInvalidInput, asset)
	}

	if len(x) < 2 {
		return RegressionResult{}, fmt.Errorf("%w: need at least 2 aligned rows, got %d", ErrInsufficientData, len(x))
	}

	if stat.Variance(x, nil) == 0 {
		return RegressionResult{}, fmt.Errorf("%w: market returns are constant, regression is undefined", ErrInvalidInput)
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if !isFinite(alpha) || !isFinite(beta) {
		return RegressionResult{}, fmt.Errorf("%w: regression produced a non-finite coefficient", ErrInvalidInput)
	}

	return RegressionResult{Beta: beta, Alpha: alpha}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
