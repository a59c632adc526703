package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/receipt"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
)

type ReceiptService struct {
	uow         uow.UOW
	receiptRepo ReceiptRepository
	metrics     ReceiptMetrics
}

func NewReceiptService(u uow.UOW, metrics ReceiptMetrics) (*ReceiptService, error) {
	receiptRepo, err := uow.GetRepositoryAs[ReceiptRepository](u, uow.RepositoryName(repoargs.ReceiptRepoName))
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &ReceiptService{
		uow:         u,
		receiptRepo: receiptRepo,
		metrics:     metrics,
	}, nil
}

type CreateReceiptArgs struct {
	Items   []domain.ReceiptItem
	Payment domain.Payment
}

// Create проверяет и считает чек, затем сохраняет шапку и позиции в одной транзакции.
// Ошибки валидации возвращаются до обращения к БД.
func (s *ReceiptService) Create(
	ctx context.Context,
	ownerID int64,
	args CreateReceiptArgs,
) (*receipt.AggregatedReceipt, error) {
	agg, aggErr := receipt.Aggregate(args.Items, args.Payment)
	if aggErr != nil {
		return nil, fmt.Errorf("creating receipt: %w", aggErr)
	}

	var stored *domain.Receipt
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		receiptRepo, repoErr := uow.GetAs[ReceiptRepository](tx, uow.RepositoryName(repoargs.ReceiptRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var createErr error
		stored, createErr = receiptRepo.Create(c, repoargs.CreateReceipt{
			OwnerID: ownerID,
			Payment: args.Payment,
			Items:   args.Items,
		})
		return createErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating receipt: %w", txErr)
	}

	if s.metrics != nil {
		s.metrics.ReceiptCreated(stored.Payment.Type)
	}
	aggregated := agg.Receipt(stored.ID, stored.CreatedAt, stored.Payment)
	return &aggregated, nil
}

// Get возвращает чек владельца. Чужой чек неотличим от отсутствующего: domain.ErrRecordNotFound.
func (s *ReceiptService) Get(ctx context.Context, ownerID, id int64) (*receipt.AggregatedReceipt, error) {
	var stored *domain.Receipt
	txErr := s.uow.ReadOnly(ctx, func(c context.Context, tx uow.TX) error {
		receiptRepo, repoErr := uow.GetAs[ReceiptRepository](tx, uow.RepositoryName(repoargs.ReceiptRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var findErr error
		stored, findErr = receiptRepo.FindByID(c, id, &ownerID)
		return findErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("getting receipt %d: %w", id, txErr)
	}
	aggregated := receipt.Build(*stored)
	return &aggregated, nil
}

// List возвращает страницу чеков владельца. Фильтры и пагинация выполняются в БД, receipt.Query
// повторно проверяет предикаты и порядок уже на полученной странице.
func (s *ReceiptService) List(
	ctx context.Context,
	ownerID int64,
	q receipt.Query,
) ([]receipt.AggregatedReceipt, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}

	var stored []domain.Receipt
	txErr := s.uow.ReadOnly(ctx, func(c context.Context, tx uow.TX) error {
		receiptRepo, repoErr := uow.GetAs[ReceiptRepository](tx, uow.RepositoryName(repoargs.ReceiptRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var listErr error
		stored, listErr = receiptRepo.ListByOwner(c, ownerID, repoargs.ReceiptListFilter{
			DateFrom:    q.DateFrom,
			DateTo:      q.DateTo,
			PaymentType: q.PaymentType,
			MinTotal:    q.MinTotal,
			Offset:      q.Skip,
			Limit:       q.Limit,
		})
		return listErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("listing receipts: %w", txErr)
	}

	aggregated := make([]receipt.AggregatedReceipt, len(stored))
	for i, r := range stored {
		aggregated[i] = receipt.Build(r)
	}
	// страница уже сдвинута в БД.
	page := q
	page.Skip = 0
	return page.Apply(aggregated), nil
}

// Render возвращает текстовое представление чека для публичного просмотра. Владелец не проверяется.
func (s *ReceiptService) Render(ctx context.Context, id int64, width int) (string, error) {
	if err := receipt.ValidateWidth(width); err != nil {
		return "", fmt.Errorf("rendering receipt: %w", err)
	}

	var stored *domain.Receipt
	txErr := s.uow.ReadOnly(ctx, func(c context.Context, tx uow.TX) error {
		receiptRepo, repoErr := uow.GetAs[ReceiptRepository](tx, uow.RepositoryName(repoargs.ReceiptRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var findErr error
		stored, findErr = receiptRepo.FindByID(c, id, nil)
		return findErr //nolint:wrapcheck
	})
	if txErr != nil {
		return "", fmt.Errorf("rendering receipt %d: %w", id, txErr)
	}

	text, err := receipt.Format(receipt.Build(*stored), width)
	if err != nil {
		return "", fmt.Errorf("rendering receipt %d: %w", id, err)
	}
	return text, nil
}
