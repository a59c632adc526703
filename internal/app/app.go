package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/config"
	"github.com/fsdevblog/groph-receipts/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/internal/service"
	"github.com/fsdevblog/groph-receipts/internal/service/psswd"
	"github.com/fsdevblog/groph-receipts/internal/transport/api"
	"github.com/fsdevblog/groph-receipts/internal/transport/api/middlewares"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// Run поднимает соединение с БД, собирает сервисы и обслуживает http до сигнала SIGINT/SIGTERM.
// После сигнала сервер дорабатывает текущие запросы и Run возвращает context.Canceled.
func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %s", a.Config)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %w", connErr)
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %w", uowErr)
	}

	metrics := middlewares.NewMetrics()
	jwtSecret := []byte(a.Config.JWTSecret)

	services, sErr := service.Factory(service.FactoryArgs{
		UOW:       unitOfWork,
		Hasher:    psswd.PasswordHash{},
		JWTSecret: jwtSecret,
		TokenTTL:  a.Config.TokenTTL,
		Metrics:   metrics,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %w", sErr)
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:         a.Logger,
		Metrics:        metrics,
		UserService:    services.UserService,
		ReceiptService: services.ReceiptService,
		JWTSecretKey:   jwtSecret,
		CookieSecure:   a.Config.CookieSecure,
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %w", routerErr)
	}

	srv := &http.Server{
		Addr:         a.Config.RunAddress,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	g, gCtx := errgroup.WithContext(notifyCtx)
	g.Go(func() error {
		a.Logger.WithField("address", srv.Addr).Info("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.Logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck
	}
	return notifyCtx.Err() //nolint:wrapcheck
}

func initUOW(conn uow.Beginner) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %w", regErr)
	}

	// receipt repo
	receiptRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewReceiptRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.ReceiptRepoName), receiptRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %w", regErr)
	}

	return unitOfWork, nil
}
