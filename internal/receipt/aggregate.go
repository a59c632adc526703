// Package receipt вычисляет итоги чека, фильтрует списки чеков и форматирует чек в текст фиксированной ширины.
// Все функции пакета чистые и не обращаются к хранилищу.
package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/money"
	"github.com/shopspring/decimal"
)

// Line позиция чека с вычисленной суммой по строке.
type Line struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

// Aggregation результат расчёта позиций и оплаты.
type Aggregation struct {
	Lines []Line
	Total decimal.Decimal
	// Rest сдача. Может быть отрицательной, если оплаты не хватает.
	Rest decimal.Decimal
}

// AggregatedReceipt чек вместе с вычисленными итогами. Нигде не хранится.
type AggregatedReceipt struct {
	ID        int64
	CreatedAt time.Time
	Items     []Line
	Payment   domain.Payment
	Total     decimal.Decimal
	Rest      decimal.Decimal
}

// Aggregate проверяет позиции и оплату и считает суммы. При любой ошибке валидации возвращает
// *domain.ValidationError и не возвращает частичный результат.
func Aggregate(items []domain.ReceiptItem, payment domain.Payment) (Aggregation, error) {
	if err := validatePayment(payment); err != nil {
		return Aggregation{}, err
	}
	for i, item := range items {
		if err := validateItem(item); err != nil {
			return Aggregation{}, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return aggregate(items, payment), nil
}

// Build пересчитывает итоги сохранённого чека. Данные из хранилища уже прошли валидацию при создании,
// поэтому ошибки здесь не проверяются.
func Build(r domain.Receipt) AggregatedReceipt {
	return aggregate(r.Items, r.Payment).Receipt(r.ID, r.CreatedAt, r.Payment)
}

// Receipt собирает чек из посчитанных итогов и шапки, полученной от хранилища.
func (a Aggregation) Receipt(id int64, createdAt time.Time, payment domain.Payment) AggregatedReceipt {
	return AggregatedReceipt{
		ID:        id,
		CreatedAt: createdAt,
		Items:     a.Lines,
		Payment:   payment,
		Total:     a.Total,
		Rest:      a.Rest,
	}
}

func aggregate(items []domain.ReceiptItem, payment domain.Payment) Aggregation {
	lines := make([]Line, 0, len(items))
	totals := make([]decimal.Decimal, 0, len(items))
	for _, item := range items {
		lineTotal := money.LineTotal(item.Price, item.Quantity)
		lines = append(lines, Line{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
			Total:    lineTotal,
		})
		totals = append(totals, lineTotal)
	}

	total := money.Sum(totals...)
	return Aggregation{
		Lines: lines,
		Total: total,
		Rest:  payment.Amount.Sub(total),
	}
}

func validateItem(item domain.ReceiptItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return domain.NewValidationError("name", "must not be empty")
	}
	if err := money.CheckPrice(item.Price); err != nil {
		return err //nolint:wrapcheck
	}
	if err := money.CheckQuantity(item.Quantity); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}

func validatePayment(p domain.Payment) error {
	if !p.Type.IsValid() {
		return domain.NewValidationError("payment.type", fmt.Sprintf("unknown payment type %q", p.Type))
	}
	if err := money.CheckAmount(p.Amount); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}
