package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/supabase-community/gotrue-go/types"

	"github.com/lottopool/lottopool/internal/core/domain"
)

const profilesTable = "profiles"

// Auth signs users in through GoTrue and reads their role from the
// "profiles" table.
type Auth struct {
	c *Client
}

func NewAuth(c *Client) *Auth {
	return &Auth{c: c}
}

type profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	CPF    string `json:"cpf,omitempty"`
	PixKey string `json:"pixKey,omitempty"`
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (*domain.User, error) {
	var s *types.TokenResponse
	res := call(ctx, func() ([]byte, error) {
		var err error
		s, err = a.c.auth.SignInWithEmailPassword(email, password)
		return nil, err
	})
	if res.Error != nil {
		if errors.Is(res.Error, types.ErrInvalidTokenRequest) {
			return nil, domain.ErrInvalidCredentials
		}
		if status := authStatus(res.Error); status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, authErr("sign_in", res.Error)
	}

	user := &domain.User{
		ID:    s.User.ID.String(),
		Name:  metadataName(s.User.UserMetadata),
		Email: s.User.Email,
		Role:  domain.RolePoolMember,
	}

	p, err := a.profile(ctx, user.ID, s.AccessToken)
	switch {
	case err == nil:
		if p.Name != "" {
			user.Name = p.Name
		}
		if r := domain.Role(p.Role); r.Valid() {
			user.Role = r
		}
		user.CPF = p.CPF
		user.PixKey = p.PixKey
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}
	return user, nil
}

func (a *Auth) SignUp(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	var s *types.SignupResponse
	res := call(ctx, func() ([]byte, error) {
		var err error
		s, err = a.c.auth.Signup(types.SignupRequest{
			Email:    email,
			Password: password,
			Data:     map[string]interface{}{"name": name, "role": string(role)},
		})
		return nil, err
	})
	if res.Error != nil {
		if authStatus(res.Error) == http.StatusUnprocessableEntity || strings.Contains(strings.ToLower(res.Error.Error()), "already registered") {
			return nil, domain.ErrUserExists
		}
		return nil, authErr("sign_up", res.Error)
	}

	// With email confirmation on, GoTrue returns no session and the profile
	// is written with the anon key.
	id := s.User.ID.String()
	token := s.AccessToken
	if token == "" {
		token = a.c.anonKey
	}
	p := profile{ID: id, Name: name, Email: email, Role: string(role)}
	ins := call(ctx, func() ([]byte, error) {
		data, _, err := a.c.restAs(token).From(profilesTable).Insert(p, false, "", "minimal", "").Execute()
		return data, err
	})
	if err := ins.err(profilesTable, "create"); err != nil {
		return nil, err
	}

	return &domain.User{ID: id, Name: name, Email: email, Role: role}, nil
}

func (a *Auth) profile(ctx context.Context, id, token string) (profile, error) {
	var p profile
	res := call(ctx, func() ([]byte, error) {
		data, _, err := a.c.restAs(token).From(profilesTable).Select("*", "", false).Eq("id", id).Single().Execute()
		return data, err
	})
	if err := res.err(profilesTable, "get_one"); err != nil {
		return p, err
	}
	err := res.decode(profilesTable, "get_one", &p)
	return p, err
}

func metadataName(meta map[string]interface{}) string {
	name, _ := meta["name"].(string)
	return name
}

// authStatus extracts the HTTP status gotrue-go embeds in its error text as
// "response status code <n>: <body>". It is zero for transport failures.
func authStatus(err error) int {
	var status int
	if _, scanErr := fmt.Sscanf(err.Error(), "response status code %d", &status); scanErr != nil {
		return 0
	}
	return status
}

func authKind(err error) domain.RemoteErrorKind {
	if isTransport(err) {
		return domain.KindUnavailable
	}
	switch status := authStatus(err); {
	case status == 0:
		return domain.KindDecode
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.KindUnauthorized
	case status == http.StatusNotFound:
		return domain.KindNotFound
	case status >= 500:
		return domain.KindUnavailable
	default:
		return domain.KindRejected
	}
}

func authErr(op string, err error) error {
	return &domain.RemoteError{Backend: backendName, Collection: "auth", Op: op, Kind: authKind(err), Err: err}
}
