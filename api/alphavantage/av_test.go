package alphavantage

import (
	"strings"
	"testing"
	"time"

	ex "capm.service/extensions"
	m "capm.service/models"
)

const sampleDailyAdjustedPayload = `{
	"Meta Data": {
		"1. Information": "Daily Time Series with Splits and Dividend Events",
		"2. Symbol": "AAPL",
		"3. Last Refreshed": "2025-08-29",
		"4. Output Size": "Full size",
		"5. Time Zone": "US/Eastern"
	},
	"Time Series (Daily)": {
		"2025-08-29": {
			"1. open": "231.10",
			"2. high": "233.41",
			"3. low": "229.34",
			"4. close": "232.14",
			"5. adjusted close": "232.14",
			"6. volume": "44249994",
			"7. dividend amount": "0.0000",
			"8. split coefficient": "1.0"
		},
		"2025-08-28": {
			"1. open": "229.25",
			"2. high": "231.60",
			"3. low": "228.12",
			"4. close": "230.51",
			"5. adjusted close": "230.51",
			"6. volume": "38074790",
			"7. dividend amount": "0.2500",
			"8. split coefficient": "1.0"
		}
	}
}`

func Test_ParseMetaData(t *testing.T) {
	raw, err := parseRawJson(strings.NewReader(sampleDailyAdjustedPayload))
	if err != nil {
		t.Fatalf("error parsing raw json: %s", err)
	}

	md, tz, err := parseMetaData(raw)
	if err != nil {
		t.Fatalf("error parsing meta data: %s", err)
	}

	ex.AssertAreEqual(t, "symbol", "AAPL", md.Symbol)
	ex.AssertAreEqual(t, "last refreshed", "2025-08-29", ex.FmtShort(md.LastRefreshed))

	if tz.String() != "America/New_York" {
		t.Errorf("expected eastern time zone, got %s", tz)
	}
}

func Test_ParseTimeSeriesDataResult(t *testing.T) {
	raw, err := parseRawJson(strings.NewReader(sampleDailyAdjustedPayload))
	if err != nil {
		t.Fatalf("error parsing raw json: %s", err)
	}

	series, err := parseTimeSeriesDataResult(raw, "Time Series (Daily)", time.UTC)
	if err != nil {
		t.Fatalf("error parsing time series: %s", err)
	}

	ex.AssertAreEqual(t, "series length", 2, len(series))

	f := func(d *m.TimeSeriesData) bool { return ex.FmtShort(d.Timestamp) == "2025-08-28" }
	bar := ex.FilterMultiplePtr(series, f)
	ex.AssertAreEqual(t, "matched bars", 1, len(bar))

	ex.AssertAreEqual(t, "close", 230.51, bar[0].Close.Float64)
	ex.AssertAreEqual(t, "adjusted close", 230.51, bar[0].AdjustedClose.Float64)
	ex.AssertAreEqual(t, "dividend amount", 0.25, bar[0].DividendAmount.Float64)
	ex.AssertAreEqual(t, "volume set", true, bar[0].Volume.Valid)
}

func Test_BuildRequestPath(t *testing.T) {
	client := GetClient("test-api-key")
	endpoint := client.buildRequestPath(map[string]string{
		function: "TIME_SERIES_DAILY_ADJUSTED",
		symbol:   "AAPL",
	})

	values := endpoint.Query()
	ex.AssertAreEqual(t, "apikey", "test-api-key", values.Get("apikey"))
	ex.AssertAreEqual(t, "function", "TIME_SERIES_DAILY_ADJUSTED", values.Get("function"))
	ex.AssertAreEqual(t, "symbol", "AAPL", values.Get("symbol"))
	ex.AssertAreEqual(t, "outputsize", "full", values.Get("outputsize"))
}
