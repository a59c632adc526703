package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

type UserClaims struct {
	jwt.RegisteredClaims
}

// UserClaimsArgs данные, которые зашиваются в токен сессии.
type UserClaimsArgs struct {
	Subject  string
	IssuedAt time.Time
}

// GenerateUserJWT подписывает токен сессии со сроком действия IssuedAt + ttl.
func GenerateUserJWT(args UserClaimsArgs, ttl time.Duration, key []byte) (string, error) {
	userClaims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   args.Subject,
			IssuedAt:  jwt.NewNumericDate(args.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(args.IssuedAt.Add(ttl)),
		},
	}
	token, err := generateJWT(userClaims, key)
	if err != nil {
		return "", fmt.Errorf("generating user jwt token: %s", err.Error())
	}
	return token, nil
}

// ValidateUserJWT проверяет подпись и срок действия токена и возвращает username из claim `sub`.
// Возвращает ErrTokenExpired для просроченного токена и ErrTokenInvalid во всех остальных случаях.
func ValidateUserJWT(tokenString string, key []byte) (string, error) {
	token, err := validateJWT(tokenString, new(UserClaims), key)
	if err != nil {
		return "", fmt.Errorf("validating user jwt token: %w", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("validating user jwt token: %w: subject is missing", ErrTokenInvalid)
	}
	return claims.Subject, nil
}

func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %s", err.Error())
	}

	return tokenString, nil
}

func validateJWT(tokenString string, claims jwt.Claims, key []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrTokenInvalid, err.Error())
	}

	return token, nil
}
