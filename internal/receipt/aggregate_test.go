package receipt

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AggregateTestSuite struct {
	suite.Suite
}

func TestAggregateSuite(t *testing.T) {
	suite.Run(t, new(AggregateTestSuite))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cash(amount string) domain.Payment {
	return domain.Payment{Type: domain.PaymentTypeCash, Amount: dec(amount)}
}

func (s *AggregateTestSuite) TestTotals() {
	items := []domain.ReceiptItem{
		{Name: "Milk", Price: dec("2.00"), Quantity: dec("3")},
		{Name: "Bread", Price: dec("1.50"), Quantity: dec("0.5")},
		{Name: "Cheese", Price: dec("0.10"), Quantity: dec("3")},
	}

	agg, err := Aggregate(items, cash("10.00"))
	s.Require().NoError(err)
	s.Require().Len(agg.Lines, 3)

	s.True(agg.Lines[0].Total.Equal(dec("6")))
	s.True(agg.Lines[1].Total.Equal(dec("0.75")))
	s.True(agg.Lines[2].Total.Equal(dec("0.3")))
	s.True(agg.Total.Equal(dec("7.05")), agg.Total.String())
	s.True(agg.Rest.Equal(dec("2.95")), agg.Rest.String())
	s.Equal("Bread", agg.Lines[1].Name)
}

func (s *AggregateTestSuite) TestTotalIsSumOfLines() {
	items := make([]domain.ReceiptItem, 0, 50)
	for range 50 {
		items = append(items, domain.ReceiptItem{
			Name:     gofakeit.ProductName(),
			Price:    decimal.New(int64(gofakeit.IntRange(0, 100000)), -2),
			Quantity: decimal.New(int64(gofakeit.IntRange(0, 10000)), -3),
		})
	}
	payment := cash("1000.00")

	agg, err := Aggregate(items, payment)
	s.Require().NoError(err)

	sum := decimal.Zero
	for _, l := range agg.Lines {
		s.True(l.Total.Equal(l.Price.Mul(l.Quantity)))
		sum = sum.Add(l.Total)
	}
	s.True(agg.Total.Equal(sum))
	s.True(agg.Rest.Equal(payment.Amount.Sub(sum)))
}

func (s *AggregateTestSuite) TestUnderpaymentAndEmpty() {
	agg, err := Aggregate([]domain.ReceiptItem{{Name: "TV", Price: dec("500.00"), Quantity: dec("1")}}, cash("100"))
	s.Require().NoError(err)
	s.True(agg.Rest.Equal(dec("-400")))

	empty, err := Aggregate(nil, cash("12.34"))
	s.Require().NoError(err)
	s.Empty(empty.Lines)
	s.True(empty.Total.IsZero())
	s.True(empty.Rest.Equal(dec("12.34")))
}

func (s *AggregateTestSuite) TestValidation() {
	valid := domain.ReceiptItem{Name: "Milk", Price: dec("1.00"), Quantity: dec("1")}
	cases := []struct {
		name    string
		items   []domain.ReceiptItem
		payment domain.Payment
		field   string
	}{
		{name: "blank name", items: []domain.ReceiptItem{valid, {Name: "  ", Price: dec("1"), Quantity: dec("1")}}, payment: cash("1"), field: "name"},
		{name: "negative price", items: []domain.ReceiptItem{{Name: "a", Price: dec("-1"), Quantity: dec("1")}}, payment: cash("1"), field: "price"},
		{name: "price scale", items: []domain.ReceiptItem{{Name: "a", Price: dec("1.001"), Quantity: dec("1")}}, payment: cash("1"), field: "price"},
		{name: "negative quantity", items: []domain.ReceiptItem{{Name: "a", Price: dec("1"), Quantity: dec("-0.5")}}, payment: cash("1"), field: "quantity"},
		{name: "quantity scale", items: []domain.ReceiptItem{{Name: "a", Price: dec("1"), Quantity: dec("0.0001")}}, payment: cash("1"), field: "quantity"},
		{name: "negative amount", items: []domain.ReceiptItem{valid}, payment: cash("-0.01"), field: "amount"},
		{name: "unknown payment", items: []domain.ReceiptItem{valid}, payment: domain.Payment{Type: "card", Amount: dec("1")}, field: "payment.type"},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			agg, err := Aggregate(t.items, t.payment)
			s.Require().ErrorIs(err, domain.ErrValidation)

			var vErr *domain.ValidationError
			s.Require().ErrorAs(err, &vErr)
			s.Equal(t.field, vErr.Field)
			s.Empty(agg.Lines)
		})
	}
}

func (s *AggregateTestSuite) TestBuild() {
	createdAt := time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC)
	r := domain.Receipt{
		ID:        7,
		CreatedAt: createdAt,
		OwnerID:   3,
		Payment:   domain.Payment{Type: domain.PaymentTypeCashless, Amount: dec("20.00")},
		Items: []domain.ReceiptItem{
			{Name: "Coffee", Price: dec("3.50"), Quantity: dec("2.000")},
			{Name: "Cake", Price: dec("4.25"), Quantity: dec("1.000")},
		},
	}

	agg := Build(r)
	s.Equal(int64(7), agg.ID)
	s.Equal(createdAt, agg.CreatedAt)
	s.Equal(r.Payment, agg.Payment)
	s.Require().Len(agg.Items, 2)
	s.Equal("Coffee", agg.Items[0].Name)
	s.True(agg.Total.Equal(dec("11.25")))
	s.True(agg.Rest.Equal(dec("8.75")))

	fromAggregate, err := Aggregate(r.Items, r.Payment)
	s.Require().NoError(err)
	s.True(fromAggregate.Total.Equal(agg.Total))
	s.True(fromAggregate.Rest.Equal(agg.Rest))
}

func (s *AggregateTestSuite) TestAggregationReceiptMatchesBuild() {
	r := domain.Receipt{
		ID:        9,
		CreatedAt: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
		Payment:   cash("5.00"),
		Items: []domain.ReceiptItem{
			{Name: "Tea", Price: dec("0.99"), Quantity: dec("3.333")},
		},
	}

	agg, err := Aggregate(r.Items, r.Payment)
	s.Require().NoError(err)
	s.Equal(Build(r), agg.Receipt(r.ID, r.CreatedAt, r.Payment))
}
