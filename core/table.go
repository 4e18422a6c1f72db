package core

import (
	"fmt"
	"slices"
	"time"

	ex "capm.service/extensions"
)

// TimeSeries is one instrument's daily close history: dates strictly
// increasing, prices strictly positive.
type TimeSeries struct {
	Symbol string
	Dates  []time.Time
	Values []float64
}

// PriceTable is a set of series inner-joined on date, so every column has the
// same length and alignment. The market column is always present and is
// distinguished from asset columns by the Market label. Tables are built once
// and never mutated, each pipeline stage returns a new one.
type PriceTable struct {
	Market  string
	Symbols []string // market first, then assets in request order
	Dates   []time.Time
	Columns map[string][]float64
}

// Align inner-joins the market series with every asset series on calendar
// date. Only dates present in all series are retained, so downstream rows are
// always paired correctly.
func Align(market *TimeSeries, assets []*TimeSeries) (*PriceTable, error) {
	if market == nil || market.Symbol == "" {
		return nil, fmt.Errorf("%w: market series is required", ErrInvalidInput)
	}

	if err := validateSeries(market); err != nil {
		return nil, err
	}

	seen := map[string]bool{market.Symbol: true}
	lookups := make([]map[string]float64, len(assets))
	for i, asset := range assets {
		if seen[asset.Symbol] {
			return nil, fmt.Errorf("%w: duplicate column label %q", ErrInvalidInput, asset.Symbol)
		}
		seen[asset.Symbol] = true

		if err := validateSeries(asset); err != nil {
			return nil, err
		}

		lookup := make(map[string]float64, len(asset.Dates))
		for j, d := range asset.Dates {
			lookup[ex.FmtShort(d)] = asset.Values[j]
		}
		lookups[i] = lookup
	}

	table := &PriceTable{
		Market:  market.Symbol,
		Symbols: make([]string, 0, len(assets)+1),
		Columns: make(map[string][]float64, len(assets)+1),
	}
	table.Symbols = append(table.Symbols, market.Symbol)
	for _, asset := range assets {
		table.Symbols = append(table.Symbols, asset.Symbol)
	}

	for i, d := range market.Dates {
		key := ex.FmtShort(d)
		joined := true
		for _, lookup := range lookups {
			if _, ok := lookup[key]; !ok {
				joined = false
				break
			}
		}
		if !joined {
			continue
		}

		table.Dates = append(table.Dates, d)
		table.Columns[market.Symbol] = append(table.Columns[market.Symbol], market.Values[i])
		for j, asset := range assets {
			table.Columns[asset.Symbol] = append(table.Columns[asset.Symbol], lookups[j][key])
		}
	}

	if len(table.Dates) == 0 {
		return nil, fmt.Errorf("%w: no overlapping dates across the requested series", ErrInsufficientData)
	}

	return table, nil
}

// Normalize rescales each column by its own first value so every series
// starts at exactly 1.0. Columns named in exempt are carried over unchanged.
func (t *PriceTable) Normalize(exempt ...string) (*PriceTable, error) {
	if len(t.Dates) == 0 {
		return nil, fmt.Errorf("%w: cannot normalize an empty table", ErrInsufficientData)
	}

	res := t.emptyCopy()
	for _, symbol := range t.Symbols {
		col := t.Columns[symbol]
		if slices.Contains(exempt, symbol) {
			res.Columns[symbol] = slices.Clone(col)
			continue
		}

		base := col[0]
		if base <= 0 {
			return nil, fmt.Errorf("%w: column %q starts at a non-positive price %v", ErrInvalidInput, symbol, base)
		}

		normalized := make([]float64, len(col))
		for i, v := range col {
			normalized[i] = v / base
		}
		res.Columns[symbol] = normalized
	}

	return res, nil
}

// DailyReturns converts each column to percentage day-over-day change. The
// first row is defined as 0 for every column, the regression downstream
// cannot tolerate missing values.
func (t *PriceTable) DailyReturns() (*PriceTable, error) {
	res := t.emptyCopy()
	for _, symbol := range t.Symbols {
		col := t.Columns[symbol]
		returns := make([]float64, len(col))
		for i := 1; i < len(col); i++ {
			prior := col[i-1]
			if prior <= 0 {
				return nil, fmt.Errorf("%w: column %q has a non-positive price %v", ErrInvalidInput, symbol, prior)
			}
			returns[i] = 100 * (col[i] - prior) / prior
		}
		res.Columns[symbol] = returns
	}

	return res, nil
}

// AssetSymbols returns the column labels excluding the market column.
func (t *PriceTable) AssetSymbols() []string {
	assets := make([]string, 0, len(t.Symbols)-1)
	for _, symbol := range t.Symbols {
		if symbol != t.Market {
			assets = append(assets, symbol)
		}
	}
	return assets
}

func (t *PriceTable) emptyCopy() *PriceTable {
	return &PriceTable{
		Market:  t.Market,
		Symbols: slices.Clone(t.Symbols),
		Dates:   slices.Clone(t.Dates),
		Columns: make(map[string][]float64, len(t.Columns)),
	}
}

func validateSeries(s *TimeSeries) error {
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("%w: series %q has %d dates but %d values", ErrInvalidInput, s.Symbol, len(s.Dates), len(s.Values))
	}

	for i, v := range s.Values {
		if v <= 0 {
			return fmt.Errorf("%w: series %q has a non-positive price %v on %s", ErrInvalidInput, s.Symbol, v, ex.FmtShort(s.Dates[i]))
		}
	}

	for i := 1; i < len(s.Dates); i++ {
		if !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("%w: series %q dates are not strictly increasing at %s", ErrInvalidInput, s.Symbol, ex.FmtShort(s.Dates[i]))
		}
	}

	return nil
}
