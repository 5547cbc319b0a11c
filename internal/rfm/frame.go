package rfm

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/shopspring/decimal"

	"github.com/rfmkit/rfm/internal/model"
)

// Transactions converts the configured columns of df into typed
// transactions. Dates without a zone are read in loc.
//
// Empty (or NaN) cells are treated as missing. Any other date that matches
// no layout is a *ParseError and any other value that is not a number is a
// *ConversionError; both fail the whole table.
func (s *Segmenter) Transactions(df dataframe.DataFrame, loc *time.Location) ([]model.Transaction, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("input table: %w", df.Err)
	}

	p := s.params
	names := df.Names()
	for _, col := range []string{p.IDColumn, p.OrderColumn, p.DateColumn, p.ValueColumn} {
		if !slices.Contains(names, col) {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, col)
		}
	}

	ids := df.Col(p.IDColumn).Records()
	orders := df.Col(p.OrderColumn).Records()
	dates := df.Col(p.DateColumn).Records()
	values := df.Col(p.ValueColumn).Records()

	txns := make([]model.Transaction, len(ids))
	for i := range ids {
		row := i + 1

		date, err := parseDate(dates[i], p.DateLayouts, loc)
		if err != nil {
			return nil, &ParseError{Row: row, Column: p.DateColumn, Value: dates[i], Err: err}
		}

		var value decimal.NullDecimal
		if v := cell(values[i]); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, &ConversionError{Row: row, Column: p.ValueColumn, Value: values[i], Err: err}
			}
			value = decimal.NewNullDecimal(d)
		}

		txns[i] = model.Transaction{
			CustomerID: cell(ids[i]),
			OrderID:    cell(orders[i]),
			OrderDate:  date,
			Value:      value,
		}
	}
	return txns, nil
}

// cell trims a record and maps NaN to empty.
func cell(s string) string {
	s = strings.TrimSpace(s)
	if s == "NaN" {
		return ""
	}
	return s
}

func parseDate(s string, layouts []string, loc *time.Location) (time.Time, error) {
	s = cell(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("matches none of %d date layouts", len(layouts))
}

// ToFrame lays customers out as a table with the columns of model.Columns.
func ToFrame(customers []model.Customer, idCol, dateLayout string) dataframe.DataFrame {
	k := len(customers)
	ids := make([]string, k)
	last := make([]string, k)
	r := make([]int, k)
	f := make([]int, k)
	m := make([]float64, k)
	rBin := make([]int, k)
	fBin := make([]int, k)
	mBin := make([]int, k)
	tags := make([]string, k)
	names := make([]string, k)

	for i, c := range customers {
		ids[i] = c.ID
		last[i] = c.LastOrder.Format(dateLayout)
		r[i] = c.Recency
		f[i] = c.Frequency
		m[i] = c.Monetary.InexactFloat64()
		rBin[i], fBin[i], mBin[i] = c.RBin, c.FBin, c.MBin
		tags[i] = c.Tag
		names[i] = c.Name
	}

	cols := model.Columns(idCol)
	return dataframe.New(
		series.New(ids, series.String, cols[0]),
		series.New(last, series.String, cols[1]),
		series.New(r, series.Int, cols[2]),
		series.New(f, series.Int, cols[3]),
		series.New(m, series.Float, cols[4]),
		series.New(rBin, series.Int, cols[5]),
		series.New(fBin, series.Int, cols[6]),
		series.New(mBin, series.Int, cols[7]),
		series.New(tags, series.String, cols[8]),
		series.New(names, series.String, cols[9]),
	)
}
