package core

import (
	"context"

	"github.com/rs/zerolog"

	av "capm.service/api/alphavantage"
	r "capm.service/repos"
)

type ServiceContext struct {
	Context            context.Context
	Log                zerolog.Logger
	PostgresConnection r.Postgres
	AlphaVantageClient av.AlphaVantageClient

	// MarketSymbol is the index every asset is regressed against. It is the
	// distinguished market column in every table this service builds.
	MarketSymbol string
}
