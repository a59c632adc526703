package app

import (
	"testing"

	"github.com/fsdevblog/groph-receipts/internal/repository/pgrepo"
	"github.com/fsdevblog/groph-receipts/internal/repository/repoargs"
	"github.com/fsdevblog/groph-receipts/internal/service"
	"github.com/fsdevblog/groph-receipts/internal/service/psswd"
	"github.com/fsdevblog/groph-receipts/pkg/uow"
	"github.com/fsdevblog/groph-receipts/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestInitUOW(t *testing.T) {
	ctrl := gomock.NewController(t)
	unitOfWork, err := initUOW(mocks.NewMockBeginner(ctrl))
	require.NoError(t, err)

	userRepo, err := uow.GetRepositoryAs[*pgrepo.UserRepository](unitOfWork, uow.RepositoryName(repoargs.UserRepoName))
	require.NoError(t, err)
	require.NotNil(t, userRepo)

	receiptRepo, err := uow.GetRepositoryAs[*pgrepo.ReceiptRepository](
		unitOfWork, uow.RepositoryName(repoargs.ReceiptRepoName),
	)
	require.NoError(t, err)
	require.NotNil(t, receiptRepo)

	// зарегистрированных репозиториев достаточно, чтобы собрать все сервисы.
	services, err := service.Factory(service.FactoryArgs{
		UOW:       unitOfWork,
		Hasher:    psswd.PasswordHash{},
		JWTSecret: []byte("secret"),
	})
	require.NoError(t, err)
	require.NotNil(t, services.UserService)
	require.NotNil(t, services.ReceiptService)
}
