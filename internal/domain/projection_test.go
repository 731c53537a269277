package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectProfit(t *testing.T) {
	// 200.00 at 2.5%/day over 30 days -> 5.00 daily, 150.00 total.
	amount, err := ParseAmount("200.00")
	require.NoError(t, err)

	p := ProjectProfit(amount, decimal.NewFromFloat(2.5), 30)
	assert.Equal(t, int64(5_000_000), p.DailyMicros)
	assert.Equal(t, int64(150_000_000), p.TotalMicros)
}

func TestProjectProfitRoundsDown(t *testing.T) {
	p := ProjectProfit(1, decimal.NewFromFloat(0.1), 3)
	assert.Equal(t, int64(0), p.DailyMicros)
	assert.Equal(t, int64(0), p.TotalMicros)
}

func TestClampAmount(t *testing.T) {
	assert.Equal(t, int64(100), ClampAmount(50, 100, 500))
	assert.Equal(t, int64(500), ClampAmount(900, 100, 500))
	assert.Equal(t, int64(250), ClampAmount(250, 100, 500))
}

func TestParseAmount(t *testing.T) {
	micros, err := ParseAmount("250.00")
	require.NoError(t, err)
	assert.Equal(t, int64(250_000_000), micros)

	_, err = ParseAmount("-5")
	assert.Error(t, err)

	_, err = ParseAmount("0")
	assert.Error(t, err)

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}

func TestMicrosToString(t *testing.T) {
	assert.Equal(t, "5.00", MicrosToString(5_000_000))
	assert.Equal(t, "0.50", MicrosToString(500_000))
	assert.Equal(t, "750.00", MicrosToString(750_000_000))
}

func TestParseAmountRoundTrip(t *testing.T) {
	micros, err := ParseAmount("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", MicrosToString(micros))
}
