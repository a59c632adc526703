package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// FieldError описание поля, не прошедшего валидацию.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func statusErrorText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "unprocessable entity"
	case http.StatusConflict:
		return "conflict"
	default:
		return "internal server error"
	}
}

// publicMessage текст публичной ошибки и, для ошибок валидации, список полей.
func publicMessage(err error) (string, []FieldError) {
	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		details := make([]FieldError, len(valErrs))
		for i, fe := range valErrs {
			// в Namespace первым идет имя структуры запроса, оно клиенту не нужно.
			_, field, found := strings.Cut(fe.Namespace(), ".")
			if !found {
				field = fe.Field()
			}
			details[i] = FieldError{Field: field, Reason: fe.Tag()}
		}
		return "validation failed", details
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error(), []FieldError{{Field: vErr.Field, Reason: vErr.Reason}}
	}
	return err.Error(), nil
}

// Errors рендерит первую ошибку из c.Errors. Сообщения приватных ошибок заменяются текстом статуса.
// Если обработчик уже записал тело ответа, ошибки только остаются в контексте для логгера.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Size() > 0 {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		status := c.Writer.Status()
		msg := statusErrorText(status)
		var details []FieldError
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg, details = publicMessage(firstErr.Err)
		}

		accept := c.GetHeader("Accept")
		contentType := c.GetHeader("Content-Type")
		switch {
		case strings.Contains(accept, "application/json"),
			strings.Contains(contentType, "application/json"):
			body := gin.H{"error": msg}
			if len(details) > 0 {
				body["details"] = details
			}
			c.JSON(status, body)
		default:
			c.String(status, msg)
		}
		c.Abort()
	}
}
