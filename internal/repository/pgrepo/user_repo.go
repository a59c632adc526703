package pgrepo

import (
	"context"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
)

type UserRepository struct {
	conn uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{conn: conn}
}

const createUserSQL = `
INSERT INTO users (username, full_name, encrypted_password)
VALUES ($1, $2, $3)
RETURNING id, created_at, username, full_name, encrypted_password`

// CreateUser создает юзера в базе данных. В случае конфликта юзернейма возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	var dbUser domain.User
	err := u.conn.QueryRow(ctx, createUserSQL, user.Username, user.FullName, user.Password).Scan(
		&dbUser.ID, &dbUser.CreatedAt, &dbUser.Username, &dbUser.FullName, &dbUser.Password,
	)
	if err != nil {
		return nil, convertErr(err, "creating user `%s`", user.Username)
	}
	return &dbUser, nil
}

const findUserByUsernameSQL = `
SELECT id, created_at, username, full_name, encrypted_password
FROM users
WHERE username = $1`

// FindUserByUsername ищет юзера по его юзернейму. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var dbUser domain.User
	err := u.conn.QueryRow(ctx, findUserByUsernameSQL, username).Scan(
		&dbUser.ID, &dbUser.CreatedAt, &dbUser.Username, &dbUser.FullName, &dbUser.Password,
	)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return &dbUser, nil
}
