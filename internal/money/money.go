// Package money содержит точную десятичную арифметику для цен, количеств и сумм чека.
// Значения никогда не проходят через float64.
package money

import (
	"strings"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	PriceScale    int32 = 2
	QuantityScale int32 = 3
	DisplayScale  int32 = 2

	// maxDigits соответствует колонкам NUMERIC(12, x) в БД.
	maxDigits int32 = 12

	maxCoefficientBits       = 256
	maxExponent        int32 = 64
)

// LineTotal возвращает точное произведение цены на количество. Масштаб результата - сумма масштабов множителей.
func LineTotal(price, quantity decimal.Decimal) decimal.Decimal {
	return price.Mul(quantity)
}

// Sum складывает значения слева направо без промежуточного округления.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Display форматирует значение с двумя знаками после запятой. Единственное место, где происходит округление.
func Display(d decimal.Decimal) string {
	return d.StringFixed(DisplayScale)
}

func CheckPrice(d decimal.Decimal) error {
	return check("price", d, PriceScale)
}

func CheckQuantity(d decimal.Decimal) error {
	return check("quantity", d, QuantityScale)
}

func CheckAmount(d decimal.Decimal) error {
	return check("amount", d, PriceScale)
}

// CheckBounds отсекает значения с огромной мантиссой или показателем степени. Сравнение и арифметика
// с таким значением приводят его к общему масштабу, что стоит памяти и времени пропорционально показателю.
func CheckBounds(field string, d decimal.Decimal) error {
	if d.Coefficient().BitLen() > maxCoefficientBits {
		return domain.NewValidationError(field, "too many digits")
	}
	switch exp := d.Exponent(); {
	case exp > maxExponent:
		return domain.NewValidationError(field, "too many digits")
	case exp < -maxExponent:
		return domain.NewValidationError(field, "too many decimal places")
	}
	return nil
}

func check(field string, d decimal.Decimal, scale int32) error {
	if d.IsNegative() {
		return domain.NewValidationError(field, "must be greater than or equal to 0")
	}
	if err := CheckBounds(field, d); err != nil {
		return err
	}
	digits, exp := significant(d)
	if digits == 0 {
		return nil
	}
	if -exp > int64(scale) {
		return domain.NewValidationError(field, "too many decimal places")
	}
	if int64(digits)+exp > int64(maxDigits-scale) {
		return domain.NewValidationError(field, "too many digits")
	}
	return nil
}

// significant число значащих цифр мантиссы и показатель степени после отбрасывания хвостовых нулей
// (2.50 -> 25, -1). Масштаб значения не меняется, поэтому стоимость зависит только от длины мантиссы.
func significant(d decimal.Decimal) (int, int64) {
	coef := d.Coefficient()
	if coef.Sign() == 0 {
		return 0, 0
	}
	digits := strings.TrimLeft(coef.String(), "-")
	trimmed := strings.TrimRight(digits, "0")
	return len(trimmed), int64(d.Exponent()) + int64(len(digits)-len(trimmed))
}
