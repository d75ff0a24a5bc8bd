package api

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/landprice/pricing"
)

func TestFormatRupees(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "₹0"},
		{"999.49", "₹999"},
		{"110000.00", "₹110,000"},
		{"1234567.89", "₹1,234,568"},
		{"2.5", "₹2"},
		{"3.5", "₹4"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRupees(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestWarning(t *testing.T) {
	est := pricing.Estimate{PerCent: decimal.NewFromInt(1), Total: decimal.NewFromInt(1)}

	assert.Empty(t, Warning("Anna Nagar", pricing.Exact{Estimate: est, Locality: "Anna Nagar"}))
	assert.Empty(t, Warning("Anna Nagar", pricing.NotFound{District: "Madurai"}))
	assert.Equal(t, "Locality not found. Showing closest match: 'Anna Nagar'",
		Warning("Ana Nagar", pricing.Fuzzy{Estimate: est, Locality: "Anna Nagar"}))
	assert.Equal(t, "Locality 'Nowhere' not found. Showing district average instead.",
		Warning("Nowhere", pricing.DistrictAverage{Estimate: est}))
}

func TestNewEstimateDTO_NotFound(t *testing.T) {
	_, ok := NewEstimateDTO("Madurai", "Anna Nagar", pricing.NotFound{District: "Madurai"})

	assert.False(t, ok)
}

func TestMissingInput(t *testing.T) {
	assert.True(t, MissingInput("", "Anna Nagar"))
	assert.True(t, MissingInput("Chennai", " \t"))
	assert.False(t, MissingInput("Chennai", "Anna Nagar"))
}
