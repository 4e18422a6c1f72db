package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	m "capm.service/models"
	q "capm.service/queries"
)

// GetDailyClosesBySymbol returns the cached daily closes for a symbol at or
// after the given date, in ascending date order.
func (pg *Postgres) GetDailyClosesBySymbol(ctx context.Context, symbol string, since time.Time) ([]*m.DailyClose, error) {
	sql := q.Get(q.QueryHelper.Select.DailyClosesBySymbol)
	args := pgx.NamedArgs{
		"symbol": symbol,
		"since":  since,
	}

	res, err := Query[m.DailyClose](ctx, pg, sql, args)
	if err != nil {
		return nil, fmt.Errorf("unable to query daily closes by symbol (%s): %w", symbol, err)
	}
	return res, nil
}

func (pg *Postgres) GetMostRecentTimestampForSymbol(ctx context.Context, symbol string) (*time.Time, error) {
	sql := q.Get(q.QueryHelper.Select.MostRecentTimestampBySymbol)
	args := pgx.NamedArgs{
		"symbol": symbol,
	}

	var ts *time.Time
	if err := pg.db.QueryRow(ctx, sql, args).Scan(&ts); err != nil {
		return nil, fmt.Errorf("error getting most recent timestamp for symbol %s: %w", symbol, err)
	}

	return ts, nil
}

func (pg *Postgres) InsertTimeSeriesData(ctx context.Context, data []*m.TimeSeriesData, sourceId *int32, tx *pgx.Tx) (int64, error) {
	columns := []string{
		"source_id", "timestamp", "close", "adjusted_close", "dividend_amount",
	}

	entries := make([][]any, len(data))
	for i, ent := range data {
		entries[i] = []any{
			sourceId, ent.Timestamp, ent.Close.Float64, ent.AdjustedClose.Float64, ent.DividendAmount.Float64,
		}
	}

	return pg.BulkInsert(ctx, "price_series_data", columns, entries, tx)
}
