package psswd

import (
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHash реализует service.PasswordHasher поверх bcrypt. Каждый вызов HashPassword использует новую соль.
// Нулевой Cost означает bcrypt.DefaultCost.
type PasswordHash struct {
	Cost int
}

func (p PasswordHash) cost() int {
	if p.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return p.Cost
}

// HashPassword пароль длиннее 72 байт bcrypt не принимает, это ошибка валидации, а не сбой.
func (p PasswordHash) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("hashing password: %w", domain.NewValidationError("password", "too long"))
		}
		return "", fmt.Errorf("hashing password: %s", err.Error())
	}
	return string(bytes), nil
}

// ComparePassword возвращает false и для неверного пароля, и для повреждённого хеша.
func (p PasswordHash) ComparePassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
