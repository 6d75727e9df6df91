package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "Rs. 1,234.50", Format("Rs.", decimal.RequireFromString("1234.5")))
	assert.Equal(t, "Rs. 0.00", Format("Rs.", decimal.Zero))
	assert.Equal(t, "1,000,000.13", Format("", decimal.RequireFromString("1000000.125")))
}
