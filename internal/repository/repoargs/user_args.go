package repoargs

type CreateUser struct {
	Username string
	FullName string
	Password string
}
