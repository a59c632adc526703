package domain

type PaymentType string

const (
	PaymentTypeCash     PaymentType = "cash"
	PaymentTypeCashless PaymentType = "cashless"
)

func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentTypeCash, PaymentTypeCashless:
		return true
	default:
		return false
	}
}
