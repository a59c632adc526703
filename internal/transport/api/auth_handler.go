package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/service"
	"github.com/fsdevblog/groph-receipts/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var errUsernameTaken = errors.New("Username already registered") //nolint:stylecheck,gochecknoglobals

type AuthHandler struct {
	userService  UserServicer
	cookieSecure bool
}

func NewAuthHandler(userService UserServicer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		cookieSecure: cookieSecure,
	}
}

type UserRegisterParams struct {
	Username string `binding:"required,min=1,max=64"  json:"username"`
	FullName string `binding:"required,max_bytes=255" json:"full_name"`
	// bcrypt учитывает только первые 72 байта пароля.
	Password string `binding:"required,max_bytes=72"  json:"password"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    string `json:"user"`
}

// Register POST RegisterRoute. Регистрирует пользователя.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Username: params.Username,
		FullName: params.FullName,
		Password: params.Password,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			_ = c.AbortWithError(http.StatusConflict, errUsernameTaken).SetType(gin.ErrorTypePublic)
			return
		}
		abortServiceError(c, createErr, "")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{Message: "User registered", User: user.Username})
}

type UserLoginParams struct {
	Username string `binding:"required" json:"username"`
	Password string `binding:"required" json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login POST LoginRoute. Аутентификация по паре логин/пароль. Токен возвращается в теле и в http-only куке.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	_, token, err := h.userService.Login(ctx, service.LoginUserArgs{
		Username: params.Username,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
			return
		}
		abortServiceError(c, err, "")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		middlewares.AuthCookieName,
		token,
		int(h.userService.TokenTTL().Seconds()),
		"/",
		"",
		h.cookieSecure,
		true,
	)
	c.JSON(http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// bindJSON разбирает тело запроса. Нарушение правил валидации дает 422, нечитаемый JSON - 400.
func bindJSON(c *gin.Context, params any) bool {
	bindErr := c.ShouldBindJSON(params)
	if bindErr == nil {
		return true
	}
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		_ = c.AbortWithError(http.StatusUnprocessableEntity, valErrs).SetType(gin.ErrorTypePublic)
		return false
	}
	_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
	return false
}
