package service

import (
	"context"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

type ReceiptRepository interface {
	Create(ctx context.Context, args repoargs.CreateReceipt) (*domain.Receipt, error)
	// FindByID при ownerID == nil ищет чек без учёта владельца.
	FindByID(ctx context.Context, id int64, ownerID *int64) (*domain.Receipt, error)
	ListByOwner(ctx context.Context, ownerID int64, filter repoargs.ReceiptListFilter) ([]domain.Receipt, error)
}

// ReceiptMetrics счётчики бизнес-событий. Реализация живёт в транспортном слое.
type ReceiptMetrics interface {
	ReceiptCreated(paymentType domain.PaymentType)
}
