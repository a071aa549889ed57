// Package supabase binds the remote store to a Supabase project through
// postgrest-go (tables) and gotrue-go (accounts). Every call is read into a
// {data, error} result first and only then turned into a Go error.
package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/postgrest-go"

	"github.com/lottopool/lottopool/internal/core/domain"
	"github.com/lottopool/lottopool/internal/core/ports"
)

const (
	backendName    = "supabase"
	defaultTimeout = 10 * time.Second

	restPath = "/rest/v1"
	authPath = "/auth/v1"
)

// PostgREST codes that need a kind other than "rejected".
const (
	codeNoRows        = "PGRST116"
	codeJWTExpired    = "PGRST301"
	codeJWTInvalid    = "PGRST302"
	codeNoPermissions = "42501"
)

// Config points the binding at a Supabase project.
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client holds the project's REST and auth clients.
type Client struct {
	baseURL string
	anonKey string
	timeout time.Duration
	rest    *postgrest.Client
	auth    gotrue.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		anonKey: cfg.AnonKey,
		timeout: timeout,
	}
	c.rest = c.restAs(cfg.AnonKey)
	c.auth = gotrue.New("", cfg.AnonKey).
		WithCustomGoTrueURL(c.baseURL + authPath).
		WithClient(http.Client{Timeout: timeout})
	return c
}

// restAs returns a REST client that authenticates with token. The shared
// client is never re-keyed because its headers apply to every request.
func (c *Client) restAs(token string) *postgrest.Client {
	rc := postgrest.NewClient(c.baseURL+restPath, "public", map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + token,
	})
	if rc.ClientError == nil {
		rc.Transport.Parent = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: c.timeout}).DialContext,
			ResponseHeaderTimeout: c.timeout,
		}
	}
	return rc
}

// result is what every call resolves to: data on success, error otherwise.
type result struct {
	Data  json.RawMessage
	Error error
}

// call runs fn, giving up when ctx ends first. The clients take no context,
// so an abandoned call finishes in the background within the client timeout.
func call(ctx context.Context, fn func() ([]byte, error)) result {
	ch := make(chan result, 1)
	go func() {
		data, err := fn()
		ch <- result{Data: data, Error: err}
	}()
	select {
	case <-ctx.Done():
		return result{Error: ctx.Err()}
	case r := <-ch:
		return r
	}
}

// err converts the error half of r into a *domain.RemoteError, or nil.
func (r result) err(collection, op string) error {
	if r.Error == nil {
		return nil
	}
	return &domain.RemoteError{
		Backend:    backendName,
		Collection: collection,
		Op:         op,
		Kind:       restKind(r.Error),
		Err:        r.Error,
	}
}

// decode unmarshals the data half of r into v.
func (r result) decode(collection, op string, v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return &domain.RemoteError{
			Backend:    backendName,
			Collection: collection,
			Op:         op,
			Kind:       domain.KindDecode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// restKind classifies a postgrest-go error. The client reports API failures
// as "(<code>) <message>" and bodies it cannot read as "error parsing error
// response", which is what gateways and overloaded servers send.
func restKind(err error) domain.RemoteErrorKind {
	if isTransport(err) {
		return domain.KindUnavailable
	}
	var se *json.SyntaxError
	var te *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &te) {
		return domain.KindDecode
	}
	msg := err.Error()
	if strings.HasPrefix(msg, "error parsing error response") {
		return domain.KindUnavailable
	}
	switch restCode(msg) {
	case codeNoRows:
		return domain.KindNotFound
	case codeJWTExpired, codeJWTInvalid, codeNoPermissions:
		return domain.KindUnauthorized
	}
	return domain.KindRejected
}

func restCode(msg string) string {
	if !strings.HasPrefix(msg, "(") {
		return ""
	}
	end := strings.Index(msg, ")")
	if end < 0 {
		return ""
	}
	return msg[1:end]
}

func isTransport(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// Ping asks GoTrue for its health.
func (c *Client) Ping(ctx context.Context) error {
	res := call(ctx, func() ([]byte, error) {
		_, err := c.auth.HealthCheck()
		return nil, err
	})
	if res.Error == nil {
		return nil
	}
	return &domain.RemoteError{Backend: backendName, Op: "ping", Kind: authKind(res.Error), Err: res.Error}
}

// NewRemoteStore exposes the project tables as a ports.RemoteStore.
func NewRemoteStore(c *Client) ports.RemoteStore {
	return ports.RemoteStore{
		Backend:      backendName,
		Pools:        NewTable[domain.Pool](c, "pools"),
		Groups:       NewTable[domain.PoolGroup](c, "groups"),
		Participants: NewTable[domain.Participant](c, "participants"),
		Auth:         NewAuth(c),
		Ping:         c.Ping,
	}
}
