package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/infrastructure/localstore"
)

type stubAuthenticator struct {
	signInFn func(ctx context.Context, email, password string) (*domain.User, error)
	signUpFn func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
}

func (s *stubAuthenticator) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthenticator) SignUp(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	return s.signUpFn(ctx, name, email, password, role)
}

func newAuthSvc(a *stubAuthenticator) (*AuthService, *localstore.Session) {
	sessions := localstore.NewSession(localstore.NewMemory())
	return NewAuthService(a, sessions, "secret", time.Hour, 50*time.Millisecond, nopLog()), sessions
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, sessions := newAuthSvc(&stubAuthenticator{
		signInFn: func(_ context.Context, email, _ string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, Name: "Admin", Role: domain.RolePoolAdmin}, nil
		},
	})
	ctx := context.Background()

	token, user, err := svc.Login(ctx, " admin@example.com ", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Email != "admin@example.com" {
		t.Fatalf("email not trimmed: %q", user.Email)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("invalid token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "u1" || claims["role"] != "POOL_ADMIN" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	current, err := svc.Current(ctx)
	if err != nil || current.ID != "u1" {
		t.Fatalf("session snapshot missing: %+v %v", current, err)
	}
	stored, _ := sessions.Load(ctx)
	if stored == nil || stored.Role != domain.RolePoolAdmin {
		t.Fatalf("unexpected stored session %+v", stored)
	}
}

func TestAuthService_Login_UnknownRoleDefaultsToMember(t *testing.T) {
	svc, _ := newAuthSvc(&stubAuthenticator{
		signInFn: func(context.Context, string, string) (*domain.User, error) {
			return &domain.User{ID: "u2", Role: "SUPERUSER"}, nil
		},
	})
	_, user, err := svc.Login(context.Background(), "x@example.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.Role != domain.RolePoolMember {
		t.Fatalf("expected POOL_MEMBER, got %s", user.Role)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	cases := map[string]error{
		"sentinel":     domain.ErrInvalidCredentials,
		"unauthorized": &domain.RemoteError{Kind: domain.KindUnauthorized},
	}
	for name, cause := range cases {
		svc, _ := newAuthSvc(&stubAuthenticator{
			signInFn: func(context.Context, string, string) (*domain.User, error) { return nil, cause },
		})
		if _, _, err := svc.Login(context.Background(), "a@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Errorf("%s: expected ErrInvalidCredentials, got %v", name, err)
		}
	}

	svc, _ := newAuthSvc(&stubAuthenticator{})
	if _, _, err := svc.Login(context.Background(), "", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("blank email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_TimesOut(t *testing.T) {
	svc, _ := newAuthSvc(&stubAuthenticator{
		signInFn: func(ctx context.Context, _, _ string) (*domain.User, error) {
			<-ctx.Done()
			return nil, &domain.RemoteError{Kind: domain.KindUnavailable, Err: ctx.Err()}
		},
	})

	start := time.Now()
	_, _, err := svc.Login(context.Background(), "a@example.com", "pw")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("login did not honour its timeout")
	}
}

func TestAuthService_Register(t *testing.T) {
	svc, _ := newAuthSvc(&stubAuthenticator{
		signUpFn: func(_ context.Context, name, email, _ string, role domain.Role) (*domain.User, error) {
			if email == "taken@example.com" {
				return nil, domain.ErrUserExists
			}
			return &domain.User{ID: "new", Name: name, Email: email, Role: role}, nil
		},
	})
	ctx := context.Background()

	u, err := svc.Register(ctx, "Org", "org@example.com", "pw", domain.RolePoolAdmin)
	if err != nil || u.Role != domain.RolePoolAdmin {
		t.Fatalf("Register: %+v %v", u, err)
	}
	if _, err := svc.Register(ctx, "Org", "taken@example.com", "pw", domain.RolePoolAdmin); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if _, err := svc.Register(ctx, "Org", "x@example.com", "pw", "ROOT"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}
}

func TestAuthService_LogoutClearsSession(t *testing.T) {
	svc, sessions := newAuthSvc(&stubAuthenticator{})
	ctx := context.Background()
	_ = sessions.Save(ctx, domain.User{ID: "u1"})

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.Current(ctx); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}
