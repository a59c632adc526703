package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	CreatedAt time.Time
	Username  string
	FullName  string
	Password  string
}

type Payment struct {
	Type   PaymentType
	Amount decimal.Decimal
}

// Receipt хранимый чек. Итоговая сумма и сдача не хранятся, они всегда вычисляются из Items и Payment.
type Receipt struct {
	ID        int64
	CreatedAt time.Time
	OwnerID   int64
	Payment   Payment
	Items     []ReceiptItem
}

type ReceiptItem struct {
	Name     string
	Price    decimal.Decimal
	Quantity decimal.Decimal
}
