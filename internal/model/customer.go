package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Customer is the per-customer RFM aggregate over the analysis window.
type Customer struct {
	ID        string
	LastOrder time.Time       // last_dt
	Recency   int             // R: whole days between today and LastOrder
	Frequency int             // F: orders in window
	Monetary  decimal.Decimal // M: summed value in window
	RBin      int
	FBin      int
	MBin      int
	Tag       string // "R-F-M"
	Name      string
}

// FormatTag returns the "R-F-M" score tag, e.g. "4-2-3".
func FormatTag(r, f, m int) string {
	return fmt.Sprintf("%d-%d-%d", r, f, m)
}

// Columns returns the fixed output column order, using idCol for the id column.
func Columns(idCol string) []string {
	return []string{idCol, "last_dt", "R", "F", "M", "R_bin", "F_bin", "M_bin", "rfm_tag", "rfm_name"}
}
