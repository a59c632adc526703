package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-receipts/internal/domain"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/internal/service/tokens"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
)

const DefaultTokenTTL = 60 * time.Minute

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	hasher         PasswordHasher
	jwtTokenSecret []byte
	tokenTTL       time.Duration
}

func NewUserService(
	u uow.UOW,
	jwtTokenSecret []byte,
	tokenTTL time.Duration,
	hasher PasswordHasher,
) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		hasher:         hasher,
		jwtTokenSecret: jwtTokenSecret,
		tokenTTL:       tokenTTL,
	}, nil
}

// TokenTTL время жизни выдаваемых токенов. Используется транспортом для Max-Age куки.
func (s *UserService) TokenTTL() time.Duration {
	return s.tokenTTL
}

type RegisterUserArgs struct {
	Username string
	FullName string
	Password string
}

// Register хеширует пароль и создает юзера. Если юзернейм занят, возвращает ошибку domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, error) {
	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, fmt.Errorf("registering user: %w", hashErr)
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		var userErr error
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Username: args.Username,
			FullName: args.FullName,
			Password: password,
		})
		return userErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("registering user: %w", txErr)
	}
	return user, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login проверяет пару логин/пароль и выдает токен сессии. Неизвестный юзер и неверный пароль
// возвращают одну и ту же ошибку domain.ErrUnauthenticated.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, args.Username)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, "", fmt.Errorf("login: %w: %w", domain.ErrUnauthenticated, err)
		}
		return nil, "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.ComparePassword(args.Password, user.Password) {
		return nil, "", fmt.Errorf("login: %w: %w", domain.ErrUnauthenticated, domain.ErrPasswordMissMatch)
	}

	token, tokenErr := tokens.GenerateUserJWT(tokens.UserClaimsArgs{
		Subject:  user.Username,
		IssuedAt: time.Now(),
	}, s.tokenTTL, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("login: %w", tokenErr)
	}
	return user, token, nil
}

// FindByUsername ищет юзера по юзернейму из токена сессии.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}
