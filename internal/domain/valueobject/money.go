package valueobject

import (
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/marketplace-backend/internal/pkg/apperror"
)

// PlatformFeeRate — доля площадки в каждой сделке (10%).
var PlatformFeeRate = decimal.RequireFromString("0.10")

// Money представляет денежную сумму с фиксированной точностью.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney создаёт денежную сумму, проверяя знак и точность.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := ValidateAmount(amount); err != nil {
		return Money{}, err
	}
	if currency == "" {
		currency = "NGN"
	}
	return Money{Amount: amount, Currency: currency}, nil
}

// ValidateAmount проверяет, что сумма положительна и не точнее минорной единицы.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperror.ErrInvalidAmount
	}
	if amount.Exponent() < -2 {
		return apperror.New(apperror.ErrCodeInvalidAmount, "сумма не может быть точнее минорной единицы валюты")
	}
	return nil
}

// SplitFee делит сумму сделки на комиссию площадки и долю исполнителя.
// Комиссия округляется до двух знаков (половина вверх), доля исполнителя —
// остаток, поэтому fee + freelancer == total выполняется для любой суммы.
func SplitFee(total decimal.Decimal) (fee, freelancer decimal.Decimal, err error) {
	if err := ValidateAmount(total); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	fee = total.Mul(PlatformFeeRate).Round(2)
	freelancer = total.Sub(fee)
	return fee, freelancer, nil
}
