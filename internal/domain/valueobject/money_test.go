package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	assert.NoError(t, ValidateAmount(decimal.NewFromInt(100)))
	assert.NoError(t, ValidateAmount(decimal.RequireFromString("0.01")))

	assert.Error(t, ValidateAmount(decimal.Zero))
	assert.Error(t, ValidateAmount(decimal.NewFromInt(-5)))
	assert.Error(t, ValidateAmount(decimal.RequireFromString("1.001")))
}

func TestSplitFee(t *testing.T) {
	fee, freelancer, err := SplitFee(decimal.NewFromInt(500))
	assert.NoError(t, err)
	assert.True(t, fee.Equal(decimal.NewFromInt(50)), "fee = %s", fee)
	assert.True(t, freelancer.Equal(decimal.NewFromInt(450)), "freelancer = %s", freelancer)
}

// Сумма долей обязана сходиться с исходной суммой для любых входов,
// включая суммы, где округление обеих долей по отдельности дало бы расхождение.
func TestSplitFee_Conservation(t *testing.T) {
	cases := []string{"0.01", "0.05", "0.15", "1.01", "33.33", "99.99", "123.45", "500.00"}

	for _, raw := range cases {
		total := decimal.RequireFromString(raw)
		fee, freelancer, err := SplitFee(total)
		assert.NoError(t, err)
		assert.True(t, fee.Add(freelancer).Equal(total),
			"total=%s fee=%s freelancer=%s", total, fee, freelancer)
		assert.False(t, fee.IsNegative())
		assert.False(t, freelancer.IsNegative())
	}
}

func TestSplitFee_RoundsHalfUp(t *testing.T) {
	// 10% от 0.05 = 0.005 → комиссия 0.01, исполнителю 0.04.
	fee, freelancer, err := SplitFee(decimal.RequireFromString("0.05"))
	assert.NoError(t, err)
	assert.True(t, fee.Equal(decimal.RequireFromString("0.01")), "fee = %s", fee)
	assert.True(t, freelancer.Equal(decimal.RequireFromString("0.04")), "freelancer = %s", freelancer)
}

func TestSplitFee_InvalidAmount(t *testing.T) {
	_, _, err := SplitFee(decimal.Zero)
	assert.Error(t, err)
}

func TestNewMoney_DefaultCurrency(t *testing.T) {
	m, err := NewMoney(decimal.NewFromInt(10), "")
	assert.NoError(t, err)
	assert.Equal(t, "NGN", m.Currency)
}
