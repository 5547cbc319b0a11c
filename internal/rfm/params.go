package rfm

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Default parameter values.
const (
	DefaultWindowDays       = 180
	DefaultBins             = 4
	DefaultIDColumn         = "customer_id"
	DefaultOrderColumn      = "order_id"
	DefaultDateColumn       = "order_date"
	DefaultValueColumn      = "margin"
	DefaultOutputDateLayout = "2006-01-02"
)

// DefaultDateLayouts are tried in order when parsing the date column.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// Params configures a segmentation run.
type Params struct {
	// Today is the reference date. Zero means the current calendar date.
	// Only the lower window bound is applied: orders dated after Today stay
	// in the window and get a negative recency.
	Today time.Time

	WindowDays int `validate:"gte=0"`
	Bins       int `validate:"gte=2"`

	IDColumn    string `validate:"required"`
	OrderColumn string `validate:"required"`
	DateColumn  string `validate:"required"`
	ValueColumn string `validate:"required"`

	DateLayouts      []string `validate:"min=1,dive,required"`
	OutputDateLayout string   `validate:"required"`

	Names Names
}

// DefaultParams returns Params with the standard defaults.
func DefaultParams() Params {
	return Params{
		WindowDays:       DefaultWindowDays,
		Bins:             DefaultBins,
		IDColumn:         DefaultIDColumn,
		OrderColumn:      DefaultOrderColumn,
		DateColumn:       DefaultDateColumn,
		ValueColumn:      DefaultValueColumn,
		DateLayouts:      append([]string(nil), DefaultDateLayouts...),
		OutputDateLayout: DefaultOutputDateLayout,
		Names:            DefaultNames(),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the parameter ranges and required column names.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
