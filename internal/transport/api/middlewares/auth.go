package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserKey = "currentUser"
	// AuthCookieName кука, в которую /login кладёт токен сессии.
	AuthCookieName = "access_token_cookie"
)

// UserResolver находит юзера по subject токена.
type UserResolver interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// extractToken берет токен из куки AuthCookieName, а если её нет - из заголовка Authorization: Bearer.
// Если токен не передан, вернется ошибка ErrTokenNotExist.
func extractToken(c *gin.Context) (string, error) {
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie, nil
	}

	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "
	if len(tokenHeader) <= len(bearer) || !strings.EqualFold(tokenHeader[:len(bearer)], bearer) {
		return "", ErrTokenNotExist
	}
	return tokenHeader[len(bearer):], nil
}

// checkAuthorization проверяет токен и возвращает юзернейм из него.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (string, error) {
	tokenStr, err := extractToken(c)
	if err != nil {
		return "", err
	}
	username, err := tokens.ValidateUserJWT(tokenStr, jwtTokenSecret)
	if err != nil {
		return "", fmt.Errorf("check authorization: %w", err)
	}
	return username, nil
}

// AuthRequired проверяет, что запрос авторизован, и записывает в контекст (поле CurrentUserKey) текущего юзера.
// Отсутствующий, просроченный или поддельный токен, а также токен удаленного юзера дают 401.
func AuthRequired(jwtTokenSecret []byte, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			return
		}

		user, findErr := users.FindByUsername(c, username)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
				return
			}
			_ = c.AbortWithError(http.StatusInternalServerError, findErr).SetType(gin.ErrorTypePrivate)
			return
		}

		c.Set(CurrentUserKey, user)
		c.Next()
	}
}

// CurrentUser возвращает юзера, записанного AuthRequired, или nil.
func CurrentUser(c *gin.Context) *domain.User {
	v, exist := c.Get(CurrentUserKey)
	if !exist {
		return nil
	}
	user, ok := v.(*domain.User)
	if !ok {
		return nil
	}
	return user
}
