package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type TimeSeriesResult struct {
	Metadata   *PriceSeriesMetadata
	TimeSeries []*TimeSeriesData
}

// TimeSeriesData is one daily bar as returned by the provider. Only the close
// and adjusted close drive the analysis, the rest are nullable so a sparse
// response still parses.
type TimeSeriesData struct {
	Timestamp      time.Time
	Open           null.Float
	High           null.Float
	Low            null.Float
	Close          null.Float
	AdjustedClose  null.Float
	Volume         null.Float
	DividendAmount null.Float
}
