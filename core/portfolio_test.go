package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_AggregatePortfolio_Averages(t *testing.T) {
	results := []CapmResult{
		{Symbol: "PG", Beta: 0.8, ExpectedAnnualReturn: 8},
		{Symbol: "MSFT", Beta: 1.0, ExpectedAnnualReturn: 10},
		{Symbol: "NVDA", Beta: 1.4, ExpectedAnnualReturn: 14},
	}

	summary, err := AggregatePortfolio(results)
	require.NoError(t, err)

	require.InDelta(t, 3.2/3, summary.AverageBeta, 1e-12)
	require.InDelta(t, 32.0/3, summary.AverageExpectedReturn, 1e-12)
	assert.Equal(t, 3, summary.AssetCount)
	// average beta 1.0666... sits between 1 and 1.2
	assert.Equal(t, "Balanced", summary.Classification)
}

func Test_AggregatePortfolio_Empty(t *testing.T) {
	_, err := AggregatePortfolio(nil)
	require.ErrorIs(t, err, ErrEmptyPortfolio)

	_, err = AggregatePortfolio([]CapmResult{})
	require.ErrorIs(t, err, ErrEmptyPortfolio)
}

func Test_ClassifyPortfolio_AsymmetricBands(t *testing.T) {
	// the bands are intentionally asymmetric: Conservative below 1, but
	// Aggressive only above 1.2
	assert.Equal(t, "Conservative", classifyPortfolio(0.99))
	assert.Equal(t, "Balanced", classifyPortfolio(1.0))
	assert.Equal(t, "Balanced", classifyPortfolio(1.2))
	assert.Equal(t, "Aggressive", classifyPortfolio(1.21))
}
