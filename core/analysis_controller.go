package core

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	ex "capm.service/extensions"
	m "capm.service/models"
)

const (
	DefaultYears = 1
	MaxYears     = 10
)

// RunAnalysis executes one full CAPM run: sync and load the market plus every
// requested asset over the lookback window, align the close series, derive
// daily returns, fit each asset's market model, and roll the results up into
// a portfolio summary. Assets that cannot be fetched or fitted are reported
// and excluded, the run only fails outright when the market series is
// unavailable or no asset survives.
func (sc *ServiceContext) RunAnalysis(req m.AnalysisRequest) (*m.AnalysisResponse, error) {
	start := time.Now()

	if err := validateAnalysisRequest(&req, sc.MarketSymbol); err != nil {
		return nil, err
	}

	lookbackStart := time.Now().AddDate(-req.Years, 0, 0)
	runId, err := sc.PostgresConnection.InsertAnalysisRunHistory(sc.Context, m.AnalysisRunHistory{
		MarketSymbol:  sc.MarketSymbol,
		Symbols:       req.Symbols,
		LookbackStart: lookbackStart,
		RiskFreeRate:  req.RiskFreeRate,
	})
	if err != nil {
		sc.Log.Error().Err(err).Msg("error inserting analysis run history")
		return nil, err
	}

	sc.Log.Info().
		Strs("symbols", req.Symbols).
		Str("market", sc.MarketSymbol).
		Int("years", req.Years).
		Msg("starting CAPM analysis run")

	market, err := sc.loadSeries(sc.MarketSymbol, lookbackStart)
	if err != nil {
		return nil, sc.markAnalysisRunAsFailure(runId, fmt.Errorf("market series %s unavailable: %w", sc.MarketSymbol, err))
	}

	var assets []*TimeSeries
	var failed []string
	for _, symbol := range req.Symbols {
		series, err := sc.loadSeries(symbol, lookbackStart)
		if err != nil {
			sc.Log.Warn().Str("symbol", symbol).Err(err).Msg("excluding asset, series unavailable")
			failed = append(failed, symbol)
			continue
		}
		assets = append(assets, series)
	}

	if len(assets) == 0 {
		return nil, sc.markAnalysisRunAsFailure(runId, fmt.Errorf("%w: no usable asset series", ErrEmptyPortfolio))
	}

	prices, err := Align(market, assets)
	if err != nil {
		return nil, sc.markAnalysisRunAsFailure(runId, err)
	}

	normalized, err := prices.Normalize(prices.Market)
	if err != nil {
		return nil, sc.markAnalysisRunAsFailure(runId, err)
	}

	returns, err := prices.DailyReturns()
	if err != nil {
		return nil, sc.markAnalysisRunAsFailure(runId, err)
	}

	rm := AnnualizedMarketReturn(returns.Columns[returns.Market])

	capmResults, regressionFailed, err := sc.fitAssets(returns, req.RiskFreeRate, rm)
	if err != nil {
		return nil, sc.markAnalysisRunAsFailure(runId, err)
	}
	failed = append(failed, regressionFailed...)

	summary, err := AggregatePortfolio(capmResults)
	if err != nil {
		return nil, sc.markAnalysisRunAsFailure(runId, err)
	}

	if err := sc.PostgresConnection.UpdateAnalysisRunAsSuccess(sc.Context, runId); err != nil {
		return nil, err
	}

	sc.Log.Info().
		Int("assets", summary.AssetCount).
		Int("failed", len(failed)).
		Dur("elapsed", time.Since(start)).
		Msg("CAPM analysis run completed")

	return buildAnalysisResponse(sc.MarketSymbol, req.RiskFreeRate, rm, normalized, returns, capmResults, summary, failed), nil
}

// fitAssets regresses every asset column against the market column. The fits
// are independent of each other so they are fanned out on an error group
// derived from the request context; results land in per-asset slots and the
// outcome is identical to a sequential pass. An asset whose regression fails
// with a core error kind is excluded rather than failing the run.
func (sc *ServiceContext) fitAssets(returns *PriceTable, rf, rm float64) ([]CapmResult, []string, error) {
	symbols := returns.AssetSymbols()
	results := make([]*CapmResult, len(symbols))
	excluded := make([]error, len(symbols))

	g, ctx := errgroup.WithContext(sc.Context)
	for i, symbol := range symbols {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			reg, err := FitMarketModel(returns, symbol)
			if err != nil {
				if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInsufficientData) {
					excluded[i] = err
					return nil
				}
				return err
			}

			res := Evaluate(symbol, reg, rf, rm)
			results[i] = &res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	capmResults := make([]CapmResult, 0, len(symbols))
	var failed []string
	for i, symbol := range symbols {
		if results[i] != nil {
			capmResults = append(capmResults, *results[i])
			continue
		}
		sc.Log.Warn().Str("symbol", symbol).Err(excluded[i]).Msg("excluding asset, regression failed")
		failed = append(failed, symbol)
	}

	return capmResults, failed, nil
}

// loadSeries syncs a symbol's cache best effort and reads its closes over the
// lookback window. Adjusted close is the analysis price.
func (sc *ServiceContext) loadSeries(symbol string, since time.Time) (*TimeSeries, error) {
	if _, err := sc.SyncSymbolTimeSeriesData(symbol); err != nil {
		// stale cached data is still usable, only an empty series is fatal
		sc.Log.Warn().Str("symbol", symbol).Err(err).Msg("sync failed, falling back to cached series")
	}

	closes, err := sc.PostgresConnection.GetDailyClosesBySymbol(sc.Context, symbol, since)
	if err != nil {
		return nil, err
	}

	if len(closes) == 0 {
		return nil, fmt.Errorf("%w: no cached prices for %s since %s", ErrInsufficientData, symbol, ex.FmtShort(since))
	}

	series := &TimeSeries{
		Symbol: symbol,
		Dates:  make([]time.Time, len(closes)),
		Values: make([]float64, len(closes)),
	}
	for i, row := range closes {
		series.Dates[i] = row.Timestamp
		series.Values[i] = row.AdjustedClose
	}

	return series, nil
}

func (sc *ServiceContext) markAnalysisRunAsFailure(runId int32, cause error) error {
	if err := sc.PostgresConnection.UpdateAnalysisRunAsFailure(sc.Context, runId, cause.Error()); err != nil {
		sc.Log.Error().Err(err).Int32("run_id", runId).Msg("error marking analysis run as failure")
	}
	return cause
}

func validateAnalysisRequest(req *m.AnalysisRequest, marketSymbol string) error {
	if len(req.Symbols) == 0 {
		return fmt.Errorf("%w: at least one symbol is required", ErrInvalidInput)
	}

	for _, symbol := range req.Symbols {
		if symbol == "" {
			return fmt.Errorf("%w: empty symbol", ErrInvalidInput)
		}
		if symbol == marketSymbol {
			return fmt.Errorf("%w: %s is the market index and cannot be analyzed against itself", ErrInvalidInput, symbol)
		}
	}

	if req.Years == 0 {
		req.Years = DefaultYears
	}
	if req.Years < 0 || req.Years > MaxYears {
		return fmt.Errorf("%w: years must be between 1 and %d", ErrInvalidInput, MaxYears)
	}

	return nil
}

func buildAnalysisResponse(
	marketSymbol string,
	rf, rm float64,
	normalized, returns *PriceTable,
	capmResults []CapmResult,
	summary PortfolioSummary,
	failed []string,
) *m.AnalysisResponse {
	dates := make([]string, len(returns.Dates))
	for i, d := range returns.Dates {
		dates[i] = ex.FmtShort(d)
	}

	normalizedPrices := make(map[string][]float64, len(normalized.Symbols)-1)
	for _, symbol := range normalized.AssetSymbols() {
		normalizedPrices[symbol] = normalized.Columns[symbol]
	}

	dailyReturns := make(map[string][]float64, len(returns.Symbols))
	for _, symbol := range returns.Symbols {
		dailyReturns[symbol] = returns.Columns[symbol]
	}

	assets := make([]m.AssetResult, len(capmResults))
	for i, res := range capmResults {
		assets[i] = m.AssetResult{
			Symbol:               res.Symbol,
			Beta:                 res.Beta,
			Alpha:                res.Alpha,
			ExpectedAnnualReturn: res.ExpectedAnnualReturn,
			RiskCategory:         res.RiskCategory,
			RiskIndicator:        res.RiskIndicator,
			Recommendations:      Recommendations(res),
		}
	}

	return &m.AnalysisResponse{
		MarketSymbol:           marketSymbol,
		AnnualizedMarketReturn: rm,
		RiskFreeRate:           rf,
		Dates:                  dates,
		NormalizedPrices:       normalizedPrices,
		DailyReturns:           dailyReturns,
		Assets:                 assets,
		Portfolio: m.PortfolioPayload{
			AverageBeta:           summary.AverageBeta,
			AverageExpectedReturn: summary.AverageExpectedReturn,
			AssetCount:            summary.AssetCount,
			Classification:        summary.Classification,
		},
		FailedSymbols: failed,
	}
}
