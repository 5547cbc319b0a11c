package rfm

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/rfmkit/rfm/internal/model"
)

const (
	numFields = 10
	colID     = 0
	colLastDt = 1
	colR      = 2
	colF      = 3
	colM      = 4
	colRBin   = 5
	colFBin   = 6
	colMBin   = 7
	colTag    = 8
	colName   = 9
)

// WriteCustomers writes customers as CSV, header first.
func WriteCustomers(w io.Writer, customers []model.Customer, idCol, dateLayout string) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(model.Columns(idCol)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, c := range customers {
		if err := cw.Write(MarshalCustomer(c, dateLayout)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalCustomer converts a Customer to a CSV row. M keeps two decimals.
func MarshalCustomer(c model.Customer, dateLayout string) []string {
	row := make([]string, numFields)
	row[colID] = c.ID
	row[colLastDt] = c.LastOrder.Format(dateLayout)
	row[colR] = strconv.Itoa(c.Recency)
	row[colF] = strconv.Itoa(c.Frequency)
	row[colM] = c.Monetary.StringFixed(2)
	row[colRBin] = strconv.Itoa(c.RBin)
	row[colFBin] = strconv.Itoa(c.FBin)
	row[colMBin] = strconv.Itoa(c.MBin)
	row[colTag] = c.Tag
	row[colName] = c.Name
	return row
}
