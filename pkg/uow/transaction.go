package uow

// Transaction выдаёт репозитории, привязанные к одной транзакции. Репозиторий создается один раз
// на имя и переиспользуется до конца транзакции. После завершения транзакции Get возвращает ErrTransactionClosed.
type Transaction struct {
	factories map[RepositoryName]RepositoryFactory
	built     map[RepositoryName]Repository
	tx        DBTX
	closed    bool
}

func NewTransaction(tx DBTX, factories map[RepositoryName]RepositoryFactory) *Transaction {
	return &Transaction{
		factories: factories,
		built:     make(map[RepositoryName]Repository),
		tx:        tx,
	}
}

// Get возвращает репозиторий или ошибки ErrRepositoryNotRegistered и ErrTransactionClosed.
func (t *Transaction) Get(name RepositoryName) (Repository, error) {
	if t.closed {
		return nil, ErrTransactionClosed
	}
	if repo, ok := t.built[name]; ok {
		return repo, nil
	}
	factory, ok := t.factories[name]
	if !ok {
		return nil, ErrRepositoryNotRegistered
	}
	repo := factory(t.tx)
	t.built[name] = repo
	return repo, nil
}

func (t *Transaction) close() {
	t.closed = true
	clear(t.built)
}

// GetAs возвращает зарегистрированный репозиторий с именем name, приведенный к типу T,
// или ошибки ErrRepositoryNotRegistered, ErrTransactionClosed и ErrInvalidRepositoryType.
func GetAs[T any](t TX, name RepositoryName) (T, error) {
	var res T
	repo, err := t.Get(name)
	if err != nil {
		return res, err //nolint:wrapcheck
	}
	res, ok := repo.(T)
	if !ok {
		return res, ErrInvalidRepositoryType
	}
	return res, nil
}
