package uow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fsdevblog/groph-receipts/pkg/uow"
	"github.com/fsdevblog/groph-receipts/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/suite"
)

// fakeTx реализует только Commit и Rollback, остальные методы pgx.Tx в тестах не вызываются.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

func (f *fakeTx) Rollback(context.Context) error {
	if f.committed {
		return pgx.ErrTxClosed
	}
	f.rolledBack = true
	return nil
}

type namedRepo struct {
	conn uow.DBTX
}

const repoName uow.RepositoryName = "named"

type UnitOfWorkTestSuite struct {
	suite.Suite
	mockConn *mocks.MockBeginner
	unit     *uow.UnitOfWork
}

func TestUnitOfWorkSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkTestSuite))
}

func (s *UnitOfWorkTestSuite) SetupTest() {
	s.mockConn = mocks.NewMockBeginner(gomock.NewController(s.T()))
	s.unit = uow.NewUnitOfWork(s.mockConn)
	s.Require().NoError(s.unit.Register(repoName, func(conn uow.DBTX) uow.Repository {
		return &namedRepo{conn: conn}
	}))
}

func (s *UnitOfWorkTestSuite) TestRegister() {
	err := s.unit.Register(repoName, func(uow.DBTX) uow.Repository { return nil })
	s.Require().ErrorIs(err, uow.ErrRepositoryAlreadyRegistered)
}

func (s *UnitOfWorkTestSuite) TestGetRepositoryAs() {
	repo, err := uow.GetRepositoryAs[*namedRepo](s.unit, repoName)
	s.Require().NoError(err)
	s.Equal(s.mockConn, repo.conn)

	_, err = uow.GetRepositoryAs[*namedRepo](s.unit, "missing")
	s.Require().ErrorIs(err, uow.ErrRepositoryNotRegistered)

	_, err = uow.GetRepositoryAs[string](s.unit, repoName)
	s.Require().ErrorIs(err, uow.ErrInvalidRepositoryType)
}

func (s *UnitOfWorkTestSuite) TestDoCommits() {
	tx := new(fakeTx)
	s.mockConn.EXPECT().BeginTx(gomock.Any(), pgx.TxOptions{}).Return(tx, nil)

	err := s.unit.Do(s.T().Context(), func(_ context.Context, t uow.TX) error {
		repo, repoErr := uow.GetAs[*namedRepo](t, repoName)
		s.Require().NoError(repoErr)
		// репозиторий внутри транзакции работает через саму транзакцию.
		s.Equal(tx, repo.conn)
		return nil
	})
	s.Require().NoError(err)
	s.True(tx.committed)
	s.False(tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestDoRollsBackOnError() {
	tx := new(fakeTx)
	s.mockConn.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(tx, nil)
	fnErr := errors.New("boom")

	err := s.unit.Do(s.T().Context(), func(context.Context, uow.TX) error {
		return fnErr
	})
	s.Require().ErrorIs(err, fnErr)
	s.False(tx.committed)
	s.True(tx.rolledBack)
}

func (s *UnitOfWorkTestSuite) TestReadOnlyUsesSnapshot() {
	tx := new(fakeTx)
	s.mockConn.EXPECT().
		BeginTx(gomock.Any(), pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}).
		Return(tx, nil)

	err := s.unit.ReadOnly(s.T().Context(), func(_ context.Context, t uow.TX) error {
		_, getErr := t.Get("missing")
		s.Require().ErrorIs(getErr, uow.ErrRepositoryNotRegistered)
		return nil
	})
	s.Require().NoError(err)
	s.True(tx.committed)
}

func (s *UnitOfWorkTestSuite) TestBeginError() {
	beginErr := errors.New("no connection")
	s.mockConn.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(nil, beginErr)

	called := false
	err := s.unit.Do(s.T().Context(), func(context.Context, uow.TX) error {
		called = true
		return nil
	})
	s.Require().ErrorIs(err, beginErr)
	s.False(called)
}

func (s *UnitOfWorkTestSuite) TestTransactionReusesRepositories() {
	tx := new(fakeTx)
	s.mockConn.EXPECT().BeginTx(gomock.Any(), gomock.Any()).Return(tx, nil)

	var escaped uow.TX
	err := s.unit.Do(s.T().Context(), func(_ context.Context, t uow.TX) error {
		first, firstErr := uow.GetAs[*namedRepo](t, repoName)
		s.Require().NoError(firstErr)
		second, secondErr := uow.GetAs[*namedRepo](t, repoName)
		s.Require().NoError(secondErr)
		s.Same(first, second)
		escaped = t
		return nil
	})
	s.Require().NoError(err)

	// после завершения транзакции её репозитории недоступны.
	_, err = escaped.Get(repoName)
	s.Require().ErrorIs(err, uow.ErrTransactionClosed)
}
