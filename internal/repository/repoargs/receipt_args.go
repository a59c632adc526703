package repoargs

import (
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/shopspring/decimal"
)

type CreateReceipt struct {
	OwnerID int64
	Payment domain.Payment
	Items   []domain.ReceiptItem
}

// ReceiptListFilter предикаты и страница выборки на стороне БД. Nil означает отсутствие фильтра,
// нулевой Limit - выборку без ограничения.
type ReceiptListFilter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	PaymentType *domain.PaymentType
	// MinTotal нижняя граница суммы чека, сумма считается по позициям без округления.
	MinTotal *decimal.Decimal
	Offset   int
	Limit    int
}
