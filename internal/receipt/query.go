package receipt

import (
	"slices"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/money"
	"github.com/shopspring/decimal"
)

const (
	DefaultSkip  = 0
	DefaultLimit = 10
)

// Query параметры выборки списка чеков. Nil-поля означают отсутствие фильтра, границы дат включительные.
type Query struct {
	Skip        int
	Limit       int
	DateFrom    *time.Time
	DateTo      *time.Time
	MinTotal    *decimal.Decimal
	PaymentType *domain.PaymentType
}

func NewQuery() Query {
	return Query{Skip: DefaultSkip, Limit: DefaultLimit}
}

func (q Query) Validate() error {
	if q.Skip < 0 {
		return domain.NewValidationError("skip", "must be greater than or equal to 0")
	}
	if q.Limit < 1 {
		return domain.NewValidationError("limit", "must be greater than or equal to 1")
	}
	if q.MinTotal != nil {
		if err := money.CheckBounds("min_total", *q.MinTotal); err != nil {
			return err //nolint:wrapcheck
		}
		if q.MinTotal.IsNegative() {
			return domain.NewValidationError("min_total", "must be greater than or equal to 0")
		}
	}
	if q.PaymentType != nil && !q.PaymentType.IsValid() {
		return domain.NewValidationError("payment_type", "must be one of cash, cashless")
	}
	return nil
}

// Matches проверяет все предикаты запроса одновременно.
func (q Query) Matches(r AggregatedReceipt) bool {
	if q.DateFrom != nil && r.CreatedAt.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && r.CreatedAt.After(*q.DateTo) {
		return false
	}
	if q.MinTotal != nil && r.Total.LessThan(*q.MinTotal) {
		return false
	}
	if q.PaymentType != nil && r.Payment.Type != *q.PaymentType {
		return false
	}
	return true
}

// Apply сортирует чеки по (CreatedAt, ID), отбирает подходящие под Matches и применяет Skip/Limit.
// Входной срез не изменяется.
func (q Query) Apply(receipts []AggregatedReceipt) []AggregatedReceipt {
	sorted := slices.Clone(receipts)
	slices.SortStableFunc(sorted, func(a, b AggregatedReceipt) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})

	limit := q.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	skip := max(q.Skip, 0)

	result := make([]AggregatedReceipt, 0, min(limit, len(sorted)))
	for _, r := range sorted {
		if !q.Matches(r) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		result = append(result, r)
		if len(result) == limit {
			break
		}
	}
	return result
}
