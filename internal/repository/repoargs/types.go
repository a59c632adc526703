package repoargs

type RepositoryName string

const (
	UserRepoName    RepositoryName = "user"
	ReceiptRepoName RepositoryName = "receipt"
)
