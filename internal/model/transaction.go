package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one order row of the raw transaction log.
type Transaction struct {
	CustomerID string
	OrderID    string // empty = missing, not counted
	OrderDate  time.Time
	Value      decimal.NullDecimal // margin or other monetary amount; invalid = missing
}
