package core

import (
	"fmt"
	"time"

	ex "capm.service/extensions"
	m "capm.service/models"
)

// SyncSymbolTimeSeriesData makes sure the local price cache for a symbol is
// current, pulling from the provider only when the cached copy is more than a
// day old and inserting only rows newer than what we already hold.
func (sc *ServiceContext) SyncSymbolTimeSeriesData(symbol string) (time.Time, error) {
	md, err := sc.PostgresConnection.GetMetaDataBySymbol(sc.Context, symbol)
	if err != nil {
		return time.Time{}, fmt.Errorf("error determining if meta data exists in sync data: %w", err)
	}

	if md == nil {
		sc.Log.Info().Str("symbol", symbol).Msg("adding new symbol to db")
		md = &m.PriceSeriesMetadata{
			Symbol:        symbol,
			LastRefreshed: time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC),
		}

		if err := sc.PostgresConnection.InsertNewMetaData(sc.Context, md, nil); err != nil {
			return time.Time{}, fmt.Errorf("error adding %s to db: %w", symbol, err)
		}
	}

	cutoffDate := time.Now().AddDate(0, 0, -1)
	if md.LastRefreshed.After(cutoffDate) {
		return md.LastRefreshed, nil
	}

	mrd, err := sc.PostgresConnection.GetMostRecentTimestampForSymbol(sc.Context, symbol)
	if err != nil {
		return time.Time{}, fmt.Errorf("error getting most recent time series date for symbol %s: %w", symbol, err)
	}

	tsr, err := sc.AlphaVantageClient.GetStockDailyAdjustedMetrics(symbol)
	if err != nil {
		return time.Time{}, err
	}

	f := func(t *m.TimeSeriesData) bool { return mrd == nil || t.Timestamp.After(*mrd) }
	toInsert := ex.FilterMultiplePtr(tsr.TimeSeries, f)

	tx, err := sc.PostgresConnection.GetTransaction(sc.Context)
	if err != nil {
		return time.Time{}, fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(sc.Context) // this will kick off if we return before committing

	var ra int64
	if len(toInsert) > 0 {
		ra, err = sc.PostgresConnection.InsertTimeSeriesData(sc.Context, toInsert, &md.Id, &tx)
		if err != nil {
			return time.Time{}, fmt.Errorf("error inserting time series data: %w", err)
		}
	}

	if err := sc.PostgresConnection.UpdateLastRefreshedDate(sc.Context, symbol, tsr.Metadata.LastRefreshed, &tx); err != nil {
		return time.Time{}, err
	}

	if err := tx.Commit(sc.Context); err != nil {
		return time.Time{}, fmt.Errorf("error committing transaction to refresh symbol %s: %w", symbol, err)
	}

	sc.Log.Info().
		Str("symbol", symbol).
		Int("fetched", len(tsr.TimeSeries)).
		Int64("inserted", ra).
		Str("last_refreshed", ex.FmtShort(tsr.Metadata.LastRefreshed)).
		Msg("synced symbol time series")

	return tsr.Metadata.LastRefreshed, nil
}
