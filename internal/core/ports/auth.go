package ports

import (
	"context"

	"github.com/lottopool/lottopool/internal/core/domain"
)

// Authenticator verifies credentials against the remote backend and resolves
// the profile role of the account.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domain.User, error)
	SignUp(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
}

// AuthService is the login use case consumed by the transport layer.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*domain.User, error)
	IssueToken(user domain.User) (string, error)
}
