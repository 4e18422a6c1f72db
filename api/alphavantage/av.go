package alphavantage

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"

	c "capm.service/api"
	ex "capm.service/extensions"
	m "capm.service/models"
)

// public
const (
	HostDefault = "www.alphavantage.co"
)

// private
const (
	// default query parameters
	defaultOutputSize = "full"
	defaultDataType   = "json"
	defaultTimeout    = time.Second * 30

	// api request elements
	query    = "query"
	symbol   = "symbol"
	function = "function"
)

var timeSeriesDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
}

type AlphaVantageClient struct {
	*c.Client
}

func GetClient(apiKey string) AlphaVantageClient {
	return AlphaVantageClient{
		c.ClientFactory(HostDefault, apiKey, defaultTimeout),
	}
}

// GetStockDailyAdjustedMetrics pulls the full daily adjusted series for a
// ticker. https://www.alphavantage.co/documentation/#dailyadj
func (avc *AlphaVantageClient) GetStockDailyAdjustedMetrics(ticker string) (*m.TimeSeriesResult, error) {
	if avc == nil {
		panic("alpha vantage client has not been set.")
	}

	endpoint := avc.buildRequestPath(map[string]string{
		function: "TIME_SERIES_DAILY_ADJUSTED",
		symbol:   ticker,
	})

	response, err := avc.Client.Connection.Request(endpoint)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close()

	raw, err := parseRawJson(response.Body)
	if err != nil {
		return nil, err
	}

	metaData, timeZone, err := parseMetaData(raw)
	if err != nil {
		return nil, err
	}

	timeSeriesData, err := parseTimeSeriesDataResult(raw, "Time Series (Daily)", timeZone)
	if err != nil {
		return nil, err
	}

	return &m.TimeSeriesResult{
		Metadata:   metaData,
		TimeSeries: timeSeriesData,
	}, nil
}

func (avc *AlphaVantageClient) buildRequestPath(params map[string]string) *url.URL {
	endpoint := &url.URL{}
	endpoint.Path = query

	// base parameters
	query := endpoint.Query()
	query.Set("apikey", avc.Client.ApiKey)
	query.Set("datatype", defaultDataType)
	query.Set("outputsize", defaultOutputSize)

	// additional parameters
	for key, value := range params {
		query.Set(key, value)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint
}

func parseRawJson(reader io.Reader) (raw map[string]json.RawMessage, err error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	// converting to a <string, raw message> map
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %w", err)
	}

	return
}

func parseMetaData(raw map[string]json.RawMessage) (*m.PriceSeriesMetadata, *time.Location, error) {
	var metadataElements map[string]string
	if err := json.Unmarshal(raw["Meta Data"], &metadataElements); err != nil {
		return nil, nil, fmt.Errorf("error unmarshaling meta data: %w", err)
	}

	metaDataKeys := slices.Collect(maps.Keys(metadataElements))

	// av prefixes every key with an ordinal ("2. Symbol"), so match on the
	// field name after the prefix
	symbolKey, err := fieldKey(metaDataKeys, "Symbol")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting symbol for meta data")
	}

	timeZoneKey, err := fieldKey(metaDataKeys, "Time Zone")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting time zone for meta data")
	}

	timeZone, err := getTimeZone(metadataElements[timeZoneKey])
	if err != nil {
		return nil, nil, fmt.Errorf("error converting time zone key %s, to time.Location: %w", metadataElements[timeZoneKey], err)
	}

	lastRefreshedKey, err := fieldKey(metaDataKeys, "Last Refreshed")
	if err != nil {
		return nil, nil, fmt.Errorf("error extracting last refreshed date")
	}

	lastRefreshed, err := parseDate(metadataElements[lastRefreshedKey], timeZone)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing last refreshed date")
	}

	res := m.PriceSeriesMetadata{
		Symbol:        metadataElements[symbolKey],
		LastRefreshed: lastRefreshed,
	}

	return &res, timeZone, nil
}

func parseTimeSeriesDataResult(raw map[string]json.RawMessage, key string, location *time.Location) ([]*m.TimeSeriesData, error) {
	var timeSeriesElements map[string]map[string]string
	if err := json.Unmarshal(raw[key], &timeSeriesElements); err != nil {
		return nil, fmt.Errorf("error unmarshaling time series: %w", err)
	}

	timeSeries := make([]*m.TimeSeriesData, 0, len(timeSeriesElements))
	for timeSeriesKey, timeSeriesValue := range timeSeriesElements {
		timestamp, err := parseDate(timeSeriesKey, location)
		if err != nil {
			return nil, fmt.Errorf("error converting timestamp from string to time.Time: %w", err)
		}

		bar, err := parseDailyBar(timeSeriesValue)
		if err != nil {
			return nil, fmt.Errorf("error parsing daily bar for %s: %w", timeSeriesKey, err)
		}

		bar.Timestamp = timestamp
		timeSeries = append(timeSeries, bar)
	}

	return timeSeries, nil
}

func parseDailyBar(values map[string]string) (*m.TimeSeriesData, error) {
	keys := slices.Collect(maps.Keys(values))

	if _, err := fieldKey(keys, "close"); err != nil {
		return nil, fmt.Errorf("error extracting close key for time series")
	}

	if _, err := fieldKey(keys, "adjusted close"); err != nil {
		return nil, fmt.Errorf("error extracting adjusted close key for time series")
	}

	return &m.TimeSeriesData{
		Open:           parseFloat(values, keys, "open"),
		High:           parseFloat(values, keys, "high"),
		Low:            parseFloat(values, keys, "low"),
		Close:          parseFloat(values, keys, "close"),
		AdjustedClose:  parseFloat(values, keys, "adjusted close"),
		Volume:         parseFloat(values, keys, "volume"),
		DividendAmount: parseFloat(values, keys, "dividend amount"),
	}, nil
}

// fieldKey finds the single key whose name after av's "N. " ordinal prefix
// matches, so "close" never collides with "adjusted close".
func fieldKey(keys []string, name string) (string, error) {
	f := func(s string) bool {
		_, field, ok := strings.Cut(s, ". ")
		return ok && strings.EqualFold(field, name)
	}
	return ex.FilterSingle(keys, f)
}

func getTimeZone(location string) (*time.Location, error) {
	var loc string
	switch strings.ToUpper(location) {
	case "US/EASTERN":
		loc = "America/New_York"
	default:
		return time.UTC, nil
	}

	res, err := time.LoadLocation(loc)
	if err != nil {
		return nil, fmt.Errorf("error parsing time zone %s in time.LoadLocation", loc)
	}

	return res, nil
}

func parseDate(dateString string, location *time.Location) (time.Time, error) {
	for _, format := range timeSeriesDateFormats {
		t, err := time.ParseInLocation(format, dateString, location)
		if err != nil {
			continue
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("error converting date %s to time.Time", dateString)
}

func parseFloat(values map[string]string, keys []string, name string) null.Float {
	key, err := fieldKey(keys, name)
	if err != nil {
		return null.Float{}
	}

	if f, err := strconv.ParseFloat(values[key], 64); err == nil {
		return null.FloatFrom(f)
	}
	return null.Float{}
}
