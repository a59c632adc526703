package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/receipt"
	"github.com/fsdevblog/groph-receipts/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	TokenTTL() time.Duration
}

type ReceiptServicer interface {
	Create(ctx context.Context, ownerID int64, args service.CreateReceiptArgs) (*receipt.AggregatedReceipt, error)
	Get(ctx context.Context, ownerID, id int64) (*receipt.AggregatedReceipt, error)
	List(ctx context.Context, ownerID int64, q receipt.Query) ([]receipt.AggregatedReceipt, error)
	Render(ctx context.Context, id int64, width int) (string, error)
}
