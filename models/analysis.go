package models

// AnalysisRequest is what the front end sends to kick off a CAPM run
type AnalysisRequest struct {
	Symbols      []string `json:"symbols"`
	Years        int      `json:"years"`
	RiskFreeRate float64  `json:"riskFreeRate"`
}

// AnalysisResponse is everything the presentation layer needs to render a run:
// the comparative series, the per asset regression results and the portfolio
// rollup.
type AnalysisResponse struct {
	MarketSymbol           string               `json:"marketSymbol"`
	AnnualizedMarketReturn float64              `json:"annualizedMarketReturn"`
	RiskFreeRate           float64              `json:"riskFreeRate"`
	Dates                  []string             `json:"dates"`
	NormalizedPrices       map[string][]float64 `json:"normalizedPrices"`
	DailyReturns           map[string][]float64 `json:"dailyReturns"`
	Assets                 []AssetResult        `json:"assets"`
	Portfolio              PortfolioPayload     `json:"portfolio"`
	FailedSymbols          []string             `json:"failedSymbols"`
}

type AssetResult struct {
	Symbol               string   `json:"symbol"`
	Beta                 float64  `json:"beta"`
	Alpha                float64  `json:"alpha"`
	ExpectedAnnualReturn float64  `json:"expectedAnnualReturn"`
	RiskCategory         string   `json:"riskCategory"`
	RiskIndicator        string   `json:"riskIndicator"`
	Recommendations      []string `json:"recommendations"`
}

type PortfolioPayload struct {
	AverageBeta           float64 `json:"averageBeta"`
	AverageExpectedReturn float64 `json:"averageExpectedReturn"`
	AssetCount            int     `json:"assetCount"`
	Classification        string  `json:"classification"`
}

type SyncResponse struct {
	Symbol        string `json:"symbol"`
	LastRefreshed string `json:"lastRefreshed"`
}
