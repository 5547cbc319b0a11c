package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTag(t *testing.T) {
	tests := []struct {
		r, f, m int
		want    string
	}{
		{4, 4, 4, "4-4-4"},
		{1, 2, 3, "1-2-3"},
		{9, 1, 9, "9-1-9"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTag(tt.r, tt.f, tt.m))
	}
}

func TestColumns(t *testing.T) {
	cols := Columns("client")
	assert.Len(t, cols, 10)
	assert.Equal(t, "client", cols[0])
	assert.Equal(t, "rfm_name", cols[9])
}
