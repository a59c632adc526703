package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

// acceptedTimeLayouts форматы дат в query параметрах. Значения без зоны трактуются как UTC.
var acceptedTimeLayouts = []string{ //nolint:gochecknoglobals
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil
	}
	for _, layout := range acceptedTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(field, "invalid datetime")
}

// parseID разбирает числовой параметр пути. Нечисловой id - ошибка валидации, а не 404.
func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(param, "must be an integer")
	}
	return id, nil
}

// currentUserID берет id текущего юзера, записанного middlewares.AuthRequired. Если юзера нет, вернется 0.
func currentUserID(c *gin.Context) int64 {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return 0
	}
	return user.ID
}

// abortValidation отвечает 422. Поля ошибки попадают в ответ через middlewares.Errors.
func abortValidation(c *gin.Context, err error) {
	_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
}

// abortServiceError сопоставляет ошибки сервисного слоя с http статусами. Неизвестные ошибки
// отдаются как 500 без подробностей.
func abortServiceError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		abortValidation(c, err)
	case errors.Is(err, domain.ErrRecordNotFound):
		_ = c.AbortWithError(http.StatusNotFound, errors.New(notFoundMsg)).SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrDuplicateKey):
		_ = c.AbortWithError(http.StatusConflict, err).SetType(gin.ErrorTypePrivate)
	case errors.Is(err, domain.ErrUnauthenticated):
		_ = c.AbortWithError(http.StatusUnauthorized, err).SetType(gin.ErrorTypePrivate)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}
