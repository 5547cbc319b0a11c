package rfm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rfmkit/rfm/internal/binning"
	"github.com/rfmkit/rfm/internal/model"
)

const day = 24 * time.Hour

// Segmenter computes RFM segments from a transaction table. It holds no
// state between calls and is safe for concurrent use.
type Segmenter struct {
	params Params
	logger *zap.Logger
	now    func() time.Time
}

// Option customizes a Segmenter.
type Option func(*Segmenter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Segmenter) { s.logger = l }
}

// WithClock sets the clock used when Params.Today is zero.
func WithClock(now func() time.Time) Option {
	return func(s *Segmenter) { s.now = now }
}

// New validates params and returns a Segmenter.
func New(params Params, opts ...Option) (*Segmenter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Segmenter{params: params, logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Params returns the segmenter's parameters.
func (s *Segmenter) Params() Params {
	return s.params
}

// Today returns the reference date: Params.Today, or the current date at
// midnight UTC.
func (s *Segmenter) Today() time.Time {
	if !s.params.Today.IsZero() {
		return s.params.Today
	}
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Segment reads transactions from df and returns one Customer per id with
// at least one order inside the window, sorted by id.
func (s *Segmenter) Segment(df dataframe.DataFrame) ([]model.Customer, error) {
	today := s.Today()
	txns, err := s.Transactions(df, today.Location())
	if err != nil {
		return nil, err
	}
	return s.segment(txns, today)
}

// SegmentFrame is Segment returning the result as a table with the columns
// of model.Columns.
func (s *Segmenter) SegmentFrame(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	customers, err := s.Segment(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return ToFrame(customers, s.params.IDColumn, s.params.OutputDateLayout), nil
}

// SegmentTransactions segments already typed transactions.
func (s *Segmenter) SegmentTransactions(txns []model.Transaction) ([]model.Customer, error) {
	return s.segment(txns, s.Today())
}

func (s *Segmenter) segment(txns []model.Transaction, today time.Time) ([]model.Customer, error) {
	cutoff := today.Add(-time.Duration(s.params.WindowDays) * day)

	byID := make(map[string]*model.Customer)
	inWindow := 0
	for _, t := range txns {
		if t.CustomerID == "" || t.OrderDate.IsZero() || t.OrderDate.Before(cutoff) {
			continue
		}
		inWindow++
		c, ok := byID[t.CustomerID]
		if !ok {
			c = &model.Customer{ID: t.CustomerID, LastOrder: t.OrderDate, Monetary: decimal.Zero}
			byID[t.CustomerID] = c
		}
		if t.OrderDate.After(c.LastOrder) {
			c.LastOrder = t.OrderDate
		}
		if t.OrderID != "" {
			c.Frequency++
		}
		if t.Value.Valid {
			c.Monetary = c.Monetary.Add(t.Value.Decimal)
		}
	}

	s.logger.Debug("window applied",
		zap.Time("today", today),
		zap.Time("cutoff", cutoff),
		zap.Int("transactions", len(txns)),
		zap.Int("in_window", inWindow),
		zap.Int("customers", len(byID)),
	)

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sortIDs(ids)

	customers := make([]model.Customer, len(ids))
	r := make([]float64, len(ids))
	f := make([]float64, len(ids))
	m := make([]float64, len(ids))
	for i, id := range ids {
		c := *byID[id]
		c.Recency = daysBetween(today, c.LastOrder)
		customers[i] = c
		r[i] = float64(c.Recency)
		f[i] = float64(c.Frequency)
		m[i] = c.Monetary.InexactFloat64()
	}

	n := s.params.Bins
	desc := make([]int, n)
	asc := make([]int, n)
	for i := 0; i < n; i++ {
		desc[i] = n - i
		asc[i] = i + 1
	}

	rBins, err := s.bin("R", r, desc)
	if err != nil {
		return nil, err
	}
	fBins, err := s.bin("F", f, asc)
	if err != nil {
		return nil, err
	}
	mBins, err := s.bin("M", m, asc)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		c := &customers[i]
		c.RBin, c.FBin, c.MBin = rBins[i], fBins[i], mBins[i]
		c.Tag = model.FormatTag(c.RBin, c.FBin, c.MBin)
		c.Name = s.params.Names.Compose(c.RBin, c.FBin, c.MBin)
	}
	return customers, nil
}

func (s *Segmenter) bin(dim string, values []float64, labels []int) ([]int, error) {
	out, fallback, err := binning.Assign(values, labels)
	if err != nil {
		return nil, fmt.Errorf("binning %s: %w", dim, err)
	}
	if fallback {
		s.logger.Debug("rank fallback used", zap.String("dimension", dim), zap.Int("values", len(values)))
	}
	return out, nil
}

// daysBetween returns the whole days from last to today, rounding toward
// negative infinity.
func daysBetween(today, last time.Time) int {
	d := today.Sub(last)
	days := d / day
	if d%day < 0 {
		days--
	}
	return int(days)
}

// sortIDs orders ids numerically when every id is an integer, otherwise
// lexicographically.
func sortIDs(ids []string) {
	sort.Strings(ids)
	nums := make(map[string]int64, len(ids))
	for _, id := range ids {
		v, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return
		}
		nums[id] = v
	}
	sort.SliceStable(ids, func(i, j int) bool { return nums[ids[i]] < nums[ids[j]] })
}
