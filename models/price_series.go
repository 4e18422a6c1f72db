package models

import "time"

// PriceSeriesMetadata tracks one cached instrument and when we last pulled it
// from the provider.
type PriceSeriesMetadata struct {
	Id            int32     `db:"id"`
	Symbol        string    `db:"symbol"`
	LastRefreshed time.Time `db:"last_refreshed"`
}

type DailyClose struct {
	SourceId      int32     `db:"source_id"`
	Timestamp     time.Time `db:"timestamp"`
	Close         float64   `db:"close"`
	AdjustedClose float64   `db:"adjusted_close"`
}

type AnalysisRunHistory struct {
	Id            int32     `db:"id"`
	MarketSymbol  string    `db:"market_symbol"`
	Symbols       []string  `db:"symbols"`
	LookbackStart time.Time `db:"lookback_start"`
	RiskFreeRate  float64   `db:"risk_free_rate"`
}
