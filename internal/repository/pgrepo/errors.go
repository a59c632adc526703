package pgrepo

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// коды SQLSTATE, которые имеют смысл для вызывающего кода.
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	numericOutOfRangeCode   = "22003"
	stringTruncationCode    = "22001"
)

// convertErr преобразует ошибку к стандартному виду для слоя репозитория.
// Особенности:
//   - pgx.ErrNoRows и нарушение внешнего ключа (владелец удален) дают domain.ErrRecordNotFound.
//   - Дубликат уникального ключа дает domain.ErrDuplicateKey.
//   - Нарушение CHECK, переполнение NUMERIC и слишком длинная строка дают *domain.ValidationError с именем ограничения или колонки.
//   - Все остальное возвращается как domain.ErrUnknown с оригинальным сообщением.
func convertErr(err error, format string, formatArgs ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, formatArgs...)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("[repository/%s] %w", msg, domain.ErrRecordNotFound)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("[repository/%s] %w: %s", msg, domain.ErrUnknown, err.Error())
	}

	switch pgErr.Code {
	case uniqueViolationCode:
		return fmt.Errorf("[repository/%s] %w: %s", msg, domain.ErrDuplicateKey, pgErr.Error())
	case foreignKeyViolationCode:
		return fmt.Errorf("[repository/%s] %w: %s", msg, domain.ErrRecordNotFound, pgErr.Error())
	case checkViolationCode:
		return fmt.Errorf("[repository/%s] %w", msg,
			domain.NewValidationError(pgErr.ConstraintName, "violates check constraint"))
	case numericOutOfRangeCode:
		return fmt.Errorf("[repository/%s] %w", msg,
			domain.NewValidationError(pgErr.ColumnName, "numeric value out of range"))
	case stringTruncationCode:
		return fmt.Errorf("[repository/%s] %w", msg,
			domain.NewValidationError(pgErr.ColumnName, "value too long"))
	default:
		return fmt.Errorf("[repository/%s] %w: %s", msg, domain.ErrUnknown, pgErr.Error())
	}
}
