package core

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is the annualization factor for daily returns.
const TradingDaysPerYear = 252

// Beta thresholds for risk classification. Lower bounds are inclusive, upper
// bounds exclusive, the last band is open ended.
const (
	betaDefensive  = 0.8
	betaAggressive = 1.2
	betaVeryHigh   = 1.5
)

// CapmResult is the full per-asset outcome of a run: the fitted market model
// plus the CAPM expected return and the risk classification derived from it.
type CapmResult struct {
	Symbol               string
	Beta                 float64
	Alpha                float64
	ExpectedAnnualReturn float64
	RiskCategory         string
	RiskIndicator        string
}

// AnnualizedMarketReturn scales the mean daily market return (in percent) to
// a yearly figure.
func AnnualizedMarketReturn(marketReturns []float64) float64 {
	return stat.Mean(marketReturns, nil) * TradingDaysPerYear
}

// ExpectedAnnualReturn is the CAPM estimate rf + beta*(rm - rf). The risk
// free rate is an explicit parameter, callers that want the simplified model
// pass 0.
func ExpectedAnnualReturn(beta, rf, rm float64) float64 {
	return rf + beta*(rm-rf)
}

// ClassifyRisk maps a beta onto its qualitative category and indicator.
func ClassifyRisk(beta float64) (category, indicator string) {
	switch {
	case beta < 0:
		return "Negative Beta (Inverse Market Relationship)", "🔵"
	case beta < betaDefensive:
		return "Low Volatility (Defensive)", "🟢"
	case beta < betaAggressive:
		return "Market Average", "🟡"
	case beta < betaVeryHigh:
		return "High Volatility (Aggressive)", "🟠"
	default:
		return "Very High Volatility (Very Aggressive)", "🔴"
	}
}

// Evaluate derives the CAPM result for one asset from its fitted market
// model and the market parameters. Stateless, recomputed on every run.
func Evaluate(symbol string, reg RegressionResult, rf, rm float64) CapmResult {
	category, indicator := ClassifyRisk(reg.Beta)
	return CapmResult{
		Symbol:               symbol,
		Beta:                 reg.Beta,
		Alpha:                reg.Alpha,
		ExpectedAnnualReturn: ExpectedAnnualReturn(reg.Beta, rf, rm),
		RiskCategory:         category,
		RiskIndicator:        indicator,
	}
}

// Recommendations builds the qualitative guidance lines for one asset, from
// its beta band and its expected return tier.
func Recommendations(res CapmResult) []string {
	var recommendations []string

	switch {
	case res.Beta < 0:
		recommendations = append(recommendations,
			fmt.Sprintf("%s moves inversely to the market - good for hedging", res.Symbol),
			"Consider for portfolio diversification during market downturns")
	case res.Beta < betaDefensive:
		recommendations = append(recommendations,
			fmt.Sprintf("%s is less volatile than the market - suitable for conservative investors", res.Symbol),
			"Good for capital preservation and steady returns")
	case res.Beta < betaAggressive:
		recommendations = append(recommendations,
			fmt.Sprintf("%s moves in line with the market - balanced risk/reward", res.Symbol),
			"Suitable for moderate risk tolerance investors")
	case res.Beta < betaVeryHigh:
		recommendations = append(recommendations,
			fmt.Sprintf("%s is more volatile than the market - higher risk and potential reward", res.Symbol),
			"Suitable for growth-oriented investors with higher risk tolerance")
	default:
		recommendations = append(recommendations,
			fmt.Sprintf("%s is highly volatile - significant risk and potential reward", res.Symbol),
			"Only suitable for aggressive investors comfortable with large price swings")
	}

	switch {
	case res.ExpectedAnnualReturn > 20:
		recommendations = append(recommendations, fmt.Sprintf("High expected annual return of %.2f%%", res.ExpectedAnnualReturn))
	case res.ExpectedAnnualReturn > 10:
		recommendations = append(recommendations, fmt.Sprintf("Moderate expected annual return of %.2f%%", res.ExpectedAnnualReturn))
	default:
		recommendations = append(recommendations, fmt.Sprintf("Conservative expected annual return of %.2f%%", res.ExpectedAnnualReturn))
	}

	return recommendations
}
