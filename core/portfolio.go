package core

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// PortfolioSummary is the reduction over every surviving asset in a run.
type PortfolioSummary struct {
	AverageBeta           float64
	AverageExpectedReturn float64
	AssetCount            int
	Classification        string
}

// AggregatePortfolio averages beta and expected return across all assets.
// Classification bands: below 1 Conservative, above 1.2 Aggressive, Balanced
// in between.
func AggregatePortfolio(results []CapmResult) (PortfolioSummary, error) {
	if len(results) == 0 {
		return PortfolioSummary{}, fmt.Errorf("%w: no assets to aggregate", ErrEmptyPortfolio)
	}

	betas := make([]float64, len(results))
	returns := make([]float64, len(results))
	for i, res := range results {
		betas[i] = res.Beta
		returns[i] = res.ExpectedAnnualReturn
	}

	averageBeta := stat.Mean(betas, nil)

	return PortfolioSummary{
		AverageBeta:           averageBeta,
		AverageExpectedReturn: stat.Mean(returns, nil),
		AssetCount:            len(results),
		Classification:        classifyPortfolio(averageBeta),
	}, nil
}

func classifyPortfolio(averageBeta float64) string {
	switch {
	case averageBeta < 1:
		return "Conservative"
	case averageBeta > 1.2:
		return "Aggressive"
	default:
		return "Balanced"
	}
}
