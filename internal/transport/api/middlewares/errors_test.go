package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/suite"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) serve(handler gin.HandlerFunc, accept string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Errors())
	r.GET("/", handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func (s *ErrorsTestSuite) TestPrivateErrorIsHidden() {
	w := s.serve(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusInternalServerError, errors.New("pq: connection refused")).
			SetType(gin.ErrorTypePrivate)
	}, "application/json")

	s.Equal(http.StatusInternalServerError, w.Code)
	s.JSONEq(`{"error":"internal server error"}`, w.Body.String())
}

func (s *ErrorsTestSuite) TestPublicErrorAsText() {
	w := s.serve(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusNotFound, errors.New("Receipt not found")).SetType(gin.ErrorTypePublic)
	}, "")

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("Receipt not found", w.Body.String())
}

func (s *ErrorsTestSuite) TestDomainValidationError() {
	w := s.serve(func(c *gin.Context) {
		err := fmt.Errorf("list receipts: %w", domain.NewValidationError("limit", "must be at least 1"))
		_ = c.AbortWithError(http.StatusUnprocessableEntity, err).SetType(gin.ErrorTypePublic)
	}, "application/json")

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.JSONEq(`{"error":"limit: must be at least 1","details":[{"field":"limit","reason":"must be at least 1"}]}`,
		w.Body.String())
}

func (s *ErrorsTestSuite) TestValidatorErrors() {
	type params struct {
		Name string `json:"name" validate:"required"`
	}
	v := validator.New()
	valErr := v.Struct(params{})
	s.Require().Error(valErr)

	w := s.serve(func(c *gin.Context) {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, valErr).SetType(gin.ErrorTypePublic)
	}, "application/json")

	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.JSONEq(`{"error":"validation failed","details":[{"field":"Name","reason":"required"}]}`, w.Body.String())
}

func (s *ErrorsTestSuite) TestWrittenBodyIsKept() {
	w := s.serve(func(c *gin.Context) {
		_ = c.Error(errors.New("bad password"))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
	}, "application/json")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.JSONEq(`{"error":"Incorrect username or password"}`, w.Body.String())
}
