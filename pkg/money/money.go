package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount возвращается, когда сумму нельзя представить в центах
var ErrInvalidAmount = errors.New("money: invalid amount")

// FormatCents форматирует сумму в минимальных единицах валюты с двумя знаками ("50.00")
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseCents разбирает десятичную сумму ("49.99") в минимальные единицы валюты
// Больше двух знаков после запятой и отрицательные суммы не допускаются
func ParseCents(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %s", ErrInvalidAmount, amount)
	}

	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than two decimal places in %s", ErrInvalidAmount, amount)
	}
	return cents.IntPart(), nil
}
