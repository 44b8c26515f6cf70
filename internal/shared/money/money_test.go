package money_test

import (
	"testing"

	"go-hris-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestHourlyRate_IsExact(t *testing.T) {
	cases := map[string]string{
		"2500":    "15.625",
		"3000":    "18.75",
		"1":       "0.00625",
		"1234.57": "7.7160625",
		// more fractional digits than the default division precision keeps
		"2500.1234567890123":      "15.625771604931326875",
		"0.000000000000000000001": "0.00000000000000000000000625",
	}
	for in, want := range cases {
		got := money.HourlyRate(d(in))
		assert.True(t, got.Equal(d(want)), "%s/160 = %s, want %s", in, got, want)
		assert.True(t, got.Mul(money.MonthlyWorkingHours).Equal(d(in)))
	}
}

func TestMax0(t *testing.T) {
	assert.True(t, money.Max0(d("-0.01")).IsZero())
	assert.True(t, money.Max0(d("12.5")).Equal(d("12.5")))
}

func TestSumAndOrZero(t *testing.T) {
	bonus := d("100")
	assert.True(t, money.Sum(d("0.1"), d("0.2")).Equal(d("0.3")))
	assert.True(t, money.OrZero(nil).IsZero())
	assert.True(t, money.OrZero(&bonus).Equal(bonus))
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "2972.66", money.Display(d("2972.65625")))
	assert.Equal(t, "161.72", money.Display(d("161.71875")))
	assert.Equal(t, "0.00", money.Display(decimal.Zero))
}

func TestParse(t *testing.T) {
	got, err := money.Parse("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = money.Parse("10.25")
	require.NoError(t, err)
	assert.Equal(t, "10.25", got.String())

	_, err = money.Parse("ten")
	assert.Error(t, err)
}
