package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/receipt"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/internal/service/mocks"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-receipts/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReceiptServiceTestSuite struct {
	suite.Suite
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockReceiptRepo *mocks.MockReceiptRepository
	mockMetrics     *mocks.MockReceiptMetrics
	receiptService  *ReceiptService
}

func TestReceiptServiceSuite(t *testing.T) {
	suite.Run(t, new(ReceiptServiceTestSuite))
}

func (s *ReceiptServiceTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(mockCtrl)
	s.mockTX = uowmocks.NewMockTX(mockCtrl)
	s.mockReceiptRepo = mocks.NewMockReceiptRepository(mockCtrl)
	s.mockMetrics = mocks.NewMockReceiptMetrics(mockCtrl)

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.ReceiptRepoName)).
		Return(s.mockReceiptRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.ReceiptRepoName)).
		Return(s.mockReceiptRepo, nil).AnyTimes()

	// обе обертки uow просто вызывают fn с моком транзакции.
	runTx := func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
		return fn(ctx, s.mockTX)
	}
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(runTx).AnyTimes()
	s.mockUOW.EXPECT().ReadOnly(gomock.Any(), gomock.Any()).DoAndReturn(runTx).AnyTimes()

	receiptService, err := NewReceiptService(s.mockUOW, s.mockMetrics)
	s.Require().NoError(err)
	s.receiptService = receiptService
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func storedReceipt(id, ownerID int64, createdAt time.Time, pt domain.PaymentType, items ...domain.ReceiptItem) domain.Receipt {
	return domain.Receipt{
		ID:        id,
		CreatedAt: createdAt,
		OwnerID:   ownerID,
		Payment:   domain.Payment{Type: pt, Amount: dec("100.00")},
		Items:     items,
	}
}

func (s *ReceiptServiceTestSuite) TestCreate() {
	args := CreateReceiptArgs{
		Items: []domain.ReceiptItem{
			{Name: "Milk", Price: dec("2.00"), Quantity: dec("3")},
			{Name: "Bread", Price: dec("1.50"), Quantity: dec("2")},
		},
		Payment: domain.Payment{Type: domain.PaymentTypeCash, Amount: dec("10.00")},
	}
	createdAt := time.Now()

	s.mockReceiptRepo.EXPECT().
		Create(gomock.Any(), repoargs.CreateReceipt{OwnerID: 7, Payment: args.Payment, Items: args.Items}).
		Return(&domain.Receipt{ID: 1, CreatedAt: createdAt, OwnerID: 7, Payment: args.Payment, Items: args.Items}, nil)
	s.mockMetrics.EXPECT().ReceiptCreated(domain.PaymentTypeCash)

	r, err := s.receiptService.Create(s.T().Context(), 7, args)
	s.Require().NoError(err)
	s.Equal(int64(1), r.ID)
	s.Equal(createdAt, r.CreatedAt)
	s.True(r.Total.Equal(dec("9")))
	s.True(r.Rest.Equal(dec("1")))
	s.Len(r.Items, 2)
}

// TestCreateReturnsComputedLines итоги берутся из расчёта до сохранения, а не пересчитываются по ответу хранилища.
func (s *ReceiptServiceTestSuite) TestCreateReturnsComputedLines() {
	args := CreateReceiptArgs{
		Items:   []domain.ReceiptItem{{Name: "Milk", Price: dec("2.00"), Quantity: dec("3")}},
		Payment: domain.Payment{Type: domain.PaymentTypeCashless, Amount: dec("6.00")},
	}
	s.mockReceiptRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.Receipt{ID: 2, OwnerID: 7, Payment: args.Payment}, nil)
	s.mockMetrics.EXPECT().ReceiptCreated(domain.PaymentTypeCashless)

	r, err := s.receiptService.Create(s.T().Context(), 7, args)
	s.Require().NoError(err)
	s.Require().Len(r.Items, 1)
	s.True(r.Items[0].Total.Equal(dec("6")))
	s.True(r.Total.Equal(dec("6")))
	s.True(r.Rest.IsZero())
}

func (s *ReceiptServiceTestSuite) TestCreateValidationNeverPersists() {
	s.mockReceiptRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	s.mockMetrics.EXPECT().ReceiptCreated(gomock.Any()).Times(0)

	_, err := s.receiptService.Create(s.T().Context(), 7, CreateReceiptArgs{
		Items: []domain.ReceiptItem{
			{Name: "Milk", Price: dec("2.00"), Quantity: dec("1")},
			{Name: "Broken", Price: dec("-1"), Quantity: dec("1")},
		},
		Payment: domain.Payment{Type: domain.PaymentTypeCash, Amount: dec("10")},
	})
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *ReceiptServiceTestSuite) TestCreateStorageFailure() {
	s.mockReceiptRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrUnknown)
	s.mockMetrics.EXPECT().ReceiptCreated(gomock.Any()).Times(0)

	_, err := s.receiptService.Create(s.T().Context(), 7, CreateReceiptArgs{
		Payment: domain.Payment{Type: domain.PaymentTypeCashless, Amount: dec("1")},
	})
	s.Require().ErrorIs(err, domain.ErrUnknown)
}

func (s *ReceiptServiceTestSuite) TestGet() {
	ownerID := int64(3)
	stored := storedReceipt(5, ownerID, time.Now(), domain.PaymentTypeCash,
		domain.ReceiptItem{Name: "Tea", Price: dec("4.00"), Quantity: dec("2.500")})

	s.mockReceiptRepo.EXPECT().FindByID(gomock.Any(), int64(5), &ownerID).Return(&stored, nil)
	// чужой чек для репозитория не существует.
	otherOwner := int64(4)
	s.mockReceiptRepo.EXPECT().FindByID(gomock.Any(), int64(5), &otherOwner).Return(nil, domain.ErrRecordNotFound)

	r, err := s.receiptService.Get(s.T().Context(), ownerID, 5)
	s.Require().NoError(err)
	s.True(r.Total.Equal(dec("10")))
	s.True(r.Rest.Equal(dec("90")))

	_, err = s.receiptService.Get(s.T().Context(), otherOwner, 5)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *ReceiptServiceTestSuite) TestList() {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	item := func(price string) domain.ReceiptItem {
		return domain.ReceiptItem{Name: "Item", Price: dec(price), Quantity: dec("1")}
	}
	stored := []domain.Receipt{
		storedReceipt(3, 1, base.Add(2*time.Hour), domain.PaymentTypeCash, item("30.00")),
		storedReceipt(1, 1, base, domain.PaymentTypeCash, item("10.00")),
		storedReceipt(2, 1, base.Add(time.Hour), domain.PaymentTypeCash, item("5.00"), item("15.00")),
	}
	paymentType := domain.PaymentTypeCash
	minTotal := dec("15")
	q := receipt.Query{Skip: 0, Limit: 10, MinTotal: &minTotal, PaymentType: &paymentType, DateFrom: &base}

	s.mockReceiptRepo.EXPECT().
		ListByOwner(gomock.Any(), int64(1), repoargs.ReceiptListFilter{
			DateFrom:    &base,
			PaymentType: &paymentType,
			MinTotal:    &minTotal,
			Offset:      0,
			Limit:       10,
		}).
		Return(stored, nil)

	list, err := s.receiptService.List(s.T().Context(), 1, q)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(int64(2), list[0].ID)
	s.True(list[0].Total.Equal(dec("20")))
	s.Equal(int64(3), list[1].ID)
}

func (s *ReceiptServiceTestSuite) TestListPagesInStorage() {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	page := []domain.Receipt{
		storedReceipt(7, 1, base, domain.PaymentTypeCashless,
			domain.ReceiptItem{Name: "Item", Price: dec("1.00"), Quantity: dec("1")}),
	}

	s.mockReceiptRepo.EXPECT().
		ListByOwner(gomock.Any(), int64(1), repoargs.ReceiptListFilter{Offset: 20, Limit: 1}).
		Return(page, nil)

	list, err := s.receiptService.List(s.T().Context(), 1, receipt.Query{Skip: 20, Limit: 1})
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(int64(7), list[0].ID)
}

func (s *ReceiptServiceTestSuite) TestListInvalidQuery() {
	s.mockReceiptRepo.EXPECT().ListByOwner(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.receiptService.List(s.T().Context(), 1, receipt.Query{Limit: 0})
	s.Require().ErrorIs(err, domain.ErrValidation)
}

func (s *ReceiptServiceTestSuite) TestRender() {
	stored := storedReceipt(9, 1, time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC), domain.PaymentTypeCashless,
		domain.ReceiptItem{Name: "Coffee", Price: dec("3.50"), Quantity: dec("2")})
	s.mockReceiptRepo.EXPECT().FindByID(gomock.Any(), int64(9), (*int64)(nil)).Return(&stored, nil)
	s.mockReceiptRepo.EXPECT().FindByID(gomock.Any(), int64(10), (*int64)(nil)).Return(nil, domain.ErrRecordNotFound)

	text, err := s.receiptService.Render(s.T().Context(), 9, 40)
	s.Require().NoError(err)
	s.Contains(text, "Coffee  7.00")
	s.Contains(text, "Payment (Cashless): 100.00")
	s.Contains(text, "CHANGE: 93.00")

	_, err = s.receiptService.Render(s.T().Context(), 10, 40)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *ReceiptServiceTestSuite) TestRenderNarrowWidth() {
	s.mockReceiptRepo.EXPECT().FindByID(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := s.receiptService.Render(s.T().Context(), 9, 19)
	s.Require().ErrorIs(err, domain.ErrValidation)

	_, err = s.receiptService.Render(s.T().Context(), 9, receipt.MaxWidth+1)
	s.Require().ErrorIs(err, domain.ErrValidation)
}
