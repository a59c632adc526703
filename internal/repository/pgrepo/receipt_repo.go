package pgrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
	"github.com/jackc/pgx/v5"
)

type ReceiptRepository struct {
	conn uow.DBTX
}

func NewReceiptRepository(conn uow.DBTX) *ReceiptRepository {
	return &ReceiptRepository{conn: conn}
}

const (
	createReceiptSQL = `
INSERT INTO receipts (owner_id, payment_type, payment_amount)
VALUES ($1, $2::payment_type, $3)
RETURNING id, created_at`

	createReceiptItemSQL = `
INSERT INTO receipt_items (receipt_id, position, name, price, quantity)
VALUES ($1, $2, $3, $4, $5)`

	selectReceiptSQL = `
SELECT id, created_at, owner_id, payment_type::text, payment_amount
FROM receipts`

	receiptTotalSQL = `(SELECT COALESCE(SUM(price * quantity), 0) FROM receipt_items WHERE receipt_id = receipts.id)`

	selectItemsSQL = `
SELECT receipt_id, name, price, quantity
FROM receipt_items
WHERE receipt_id = ANY($1)
ORDER BY receipt_id, position`
)

// Create сохраняет шапку чека и все его позиции. Позиции отправляются одним батчем, порядок сохраняется
// в колонке position. Атомарность обеспечивает вызывающий код через uow.Do.
func (r *ReceiptRepository) Create(ctx context.Context, args repoargs.CreateReceipt) (*domain.Receipt, error) {
	receipt := domain.Receipt{
		OwnerID: args.OwnerID,
		Payment: args.Payment,
		Items:   args.Items,
	}
	err := r.conn.QueryRow(ctx, createReceiptSQL, args.OwnerID, string(args.Payment.Type), args.Payment.Amount).
		Scan(&receipt.ID, &receipt.CreatedAt)
	if err != nil {
		return nil, convertErr(err, "creating receipt for owner %d", args.OwnerID)
	}

	if len(args.Items) == 0 {
		return &receipt, nil
	}

	batch := new(pgx.Batch)
	for i, item := range args.Items {
		batch.Queue(createReceiptItemSQL, receipt.ID, i, item.Name, item.Price, item.Quantity)
	}
	br := r.conn.SendBatch(ctx, batch)
	for i := range args.Items {
		if _, execErr := br.Exec(); execErr != nil {
			_ = br.Close()
			return nil, convertErr(execErr, "creating item #%d of receipt %d", i, receipt.ID)
		}
	}
	if closeErr := br.Close(); closeErr != nil {
		return nil, convertErr(closeErr, "creating items of receipt %d", receipt.ID)
	}

	return &receipt, nil
}

// FindByID возвращает чек с позициями по id. Если ownerID не nil, чек другого владельца считается
// отсутствующим и возвращается domain.ErrRecordNotFound.
func (r *ReceiptRepository) FindByID(ctx context.Context, id int64, ownerID *int64) (*domain.Receipt, error) {
	query := selectReceiptSQL + " WHERE id = $1"
	args := []any{id}
	if ownerID != nil {
		query += " AND owner_id = $2"
		args = append(args, *ownerID)
	}

	receipt, err := scanReceipt(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, convertErr(err, "finding receipt %d", id)
	}

	receipts := []domain.Receipt{*receipt}
	if itemsErr := r.loadItems(ctx, receipts); itemsErr != nil {
		return nil, itemsErr
	}
	return &receipts[0], nil
}

// ListByOwner возвращает страницу чеков владельца вместе с позициями, отсортированную по (created_at, id).
// Фильтры, сумма чека и OFFSET/LIMIT вычисляются в БД, позиции догружаются только для страницы.
func (r *ReceiptRepository) ListByOwner(
	ctx context.Context,
	ownerID int64,
	filter repoargs.ReceiptListFilter,
) ([]domain.Receipt, error) {
	conds := []string{"owner_id = $1"}
	args := []any{ownerID}
	addCond := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.DateFrom != nil {
		addCond("created_at >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCond("created_at <= $%d", *filter.DateTo)
	}
	if filter.PaymentType != nil {
		addCond("payment_type = $%d::payment_type", string(*filter.PaymentType))
	}
	if filter.MinTotal != nil {
		addCond(receiptTotalSQL+" >= $%d::numeric", *filter.MinTotal)
	}

	query := selectReceiptSQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY created_at, id"
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, convertErr(err, "listing receipts of owner %d", ownerID)
	}
	defer rows.Close()

	receipts := make([]domain.Receipt, 0)
	for rows.Next() {
		receipt, scanErr := scanReceipt(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning receipt of owner %d", ownerID)
		}
		receipts = append(receipts, *receipt)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing receipts of owner %d", ownerID)
	}

	if itemsErr := r.loadItems(ctx, receipts); itemsErr != nil {
		return nil, itemsErr
	}
	return receipts, nil
}

// loadItems загружает позиции всех чеков одним запросом и раскладывает их по receipts в порядке position.
func (r *ReceiptRepository) loadItems(ctx context.Context, receipts []domain.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}

	ids := make([]int64, len(receipts))
	index := make(map[int64]int, len(receipts))
	for i := range receipts {
		ids[i] = receipts[i].ID
		index[receipts[i].ID] = i
		receipts[i].Items = make([]domain.ReceiptItem, 0)
	}

	rows, err := r.conn.Query(ctx, selectItemsSQL, ids)
	if err != nil {
		return convertErr(err, "loading receipt items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			receiptID int64
			item      domain.ReceiptItem
		)
		if scanErr := rows.Scan(&receiptID, &item.Name, &item.Price, &item.Quantity); scanErr != nil {
			return convertErr(scanErr, "scanning receipt item")
		}
		i := index[receiptID]
		receipts[i].Items = append(receipts[i].Items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return convertErr(rowsErr, "loading receipt items")
	}
	return nil
}

func scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var (
		receipt     domain.Receipt
		paymentType string
	)
	if err := row.Scan(
		&receipt.ID,
		&receipt.CreatedAt,
		&receipt.OwnerID,
		&paymentType,
		&receipt.Payment.Amount,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	receipt.Payment.Type = domain.PaymentType(paymentType)
	return &receipt, nil
}
