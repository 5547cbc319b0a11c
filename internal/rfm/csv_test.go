package rfm

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfmkit/rfm/internal/model"
)

func TestMarshalCustomer(t *testing.T) {
	c := model.Customer{
		ID:        "42",
		LastOrder: time.Date(2024, 6, 28, 9, 30, 0, 0, time.UTC),
		Recency:   2,
		Frequency: 5,
		Monetary:  decimal.RequireFromString("127.5"),
		RBin:      4,
		FBin:      3,
		MBin:      2,
		Tag:       "4-3-2",
		Name:      "Recent · Regular · Medium",
	}

	row := MarshalCustomer(c, DefaultOutputDateLayout)
	assert.Equal(t, []string{"42", "2024-06-28", "2", "5", "127.50", "4", "3", "2", "4-3-2", "Recent · Regular · Medium"}, row)
}

func TestWriteCustomers(t *testing.T) {
	customers := []model.Customer{
		{ID: "a, inc", Monetary: decimal.NewFromInt(3), RBin: 1, FBin: 1, MBin: 1, Tag: "1-1-1"},
		{ID: "b", Monetary: decimal.Zero, RBin: 2, FBin: 2, MBin: 2, Tag: "2-2-2"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCustomers(&buf, customers, "client", DefaultOutputDateLayout))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "client,last_dt,R,F,M,R_bin,F_bin,M_bin,rfm_tag,rfm_name", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"a, inc",`), lines[1])
	assert.Contains(t, lines[2], ",0.00,")
}

func TestWriteCustomers_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCustomers(&buf, nil, DefaultIDColumn, DefaultOutputDateLayout))
	assert.Equal(t, "customer_id,last_dt,R,F,M,R_bin,F_bin,M_bin,rfm_tag,rfm_name\n", buf.String())
}
