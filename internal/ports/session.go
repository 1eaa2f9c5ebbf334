package ports

type TokenSource interface {
	Token() string
}

type SessionState interface {
	IsAuthenticated() bool
}

type SessionService interface {
	TokenSource
	SessionState
	Login(token string) error
	Logout() error
}
