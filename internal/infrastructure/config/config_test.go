package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.RemoteBackend != BackendMongo {
		t.Errorf("RemoteBackend = %q, want mongo", cfg.RemoteBackend)
	}
	if cfg.Local.Driver != LocalMemory {
		t.Errorf("Local.Driver = %q, want memory", cfg.Local.Driver)
	}
	if cfg.Local.Namespace != "lottopool_master" {
		t.Errorf("Local.Namespace = %q", cfg.Local.Namespace)
	}
	if cfg.RemoteTimeout != 10*time.Second {
		t.Errorf("RemoteTimeout = %v, want 10s", cfg.RemoteTimeout)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error when JWT_SECRET is empty")
	}
}

func TestLoad_SupabaseRequiresCredentials(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("REMOTE_BACKEND", "supabase")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error without supabase credentials")
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOCAL_DRIVER", "sqlite")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for unknown local driver")
	}
}
