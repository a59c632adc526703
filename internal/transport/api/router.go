package api

import (
	"time"

	"github.com/fsdevblog/groph-receipts/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RegisterRoute      = "/register"
	LoginRoute         = "/login"
	ReceiptsRoute      = "/receipts"
	ReceiptRoute       = "/receipts/:id"
	PublicReceiptRoute = "/public/receipts/:id"
	MetricsRoute       = "/metrics"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	Metrics        *middlewares.Metrics
	UserService    UserServicer
	ReceiptService ReceiptServicer
	JWTSecretKey   []byte
	CookieSecure   bool
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if args.Metrics != nil {
		r.Use(args.Metrics.Middleware())
		r.GET(MetricsRoute, args.Metrics.Handler())
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService, args.CookieSecure)
	receiptsHandler := NewReceiptsHandler(args.ReceiptService)
	publicHandler := NewPublicHandler(args.ReceiptService)

	r.POST(RegisterRoute, authHandler.Register)
	r.POST(LoginRoute, authHandler.Login)
	r.GET(PublicReceiptRoute, publicHandler.Show)

	// ниже все роуты группы требуют авторизованного пользователя.
	authorized := r.Group("", middlewares.AuthRequired(args.JWTSecretKey, args.UserService))
	authorized.POST(ReceiptsRoute, receiptsHandler.Create)
	authorized.GET(ReceiptsRoute, receiptsHandler.Index)
	authorized.GET(ReceiptRoute, receiptsHandler.Show)

	return r, nil
}
