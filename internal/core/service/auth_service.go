package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

// AuthService implements login against the remote backend and keeps the
// user snapshot of the current session in the local store.
type AuthService struct {
	authn     ports.Authenticator
	sessions  ports.SessionStore
	jwtSecret string
	tokenTTL  time.Duration
	timeout   time.Duration
	log       zerolog.Logger
}

func NewAuthService(authn ports.Authenticator, sessions ports.SessionStore, jwtSecret string, tokenTTL, timeout time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AuthService{
		authn:     authn,
		sessions:  sessions,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		timeout:   timeout,
		log:       log,
	}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.authn.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || domain.RemoteKind(err) == domain.KindUnauthorized {
			return "", nil, domain.ErrInvalidCredentials
		}
		s.log.Warn().Err(err).Str("email", email).Msg("login failed")
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if !user.Role.Valid() {
		user.Role = domain.RolePoolMember
	}

	if err := s.sessions.Save(ctx, *user); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	token, err := s.IssueToken(*user)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user logged in")
	return token, user, nil
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", fmt.Sprintf("unknown role %q", role))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.authn.SignUp(ctx, name, strings.TrimSpace(email), password, role)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

func (s *AuthService) Current(ctx context.Context) (*domain.User, error) {
	user, err := s.sessions.Load(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNoSession
	}
	return user, nil
}

// IssueToken signs an HS256 bearer token carrying the user's id and role.
func (s *AuthService) IssueToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
