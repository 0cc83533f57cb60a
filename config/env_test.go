package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"BACKOFFICE_GRPC_ADDR", "GATEWAY_ADDR", "TOKEN_TTL", "CORS_ORIGINS", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Service.GRPCAddr != ":50054" {
		t.Fatalf("expected default grpc addr :50054, got %q", cfg.Service.GRPCAddr)
	}
	if cfg.Gateway.Addr != ":8080" {
		t.Fatalf("expected default gateway addr :8080, got %q", cfg.Gateway.Addr)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h token ttl, got %s", cfg.Auth.TokenTTL)
	}
	if len(cfg.Gateway.CORSOrigins) != 2 {
		t.Fatalf("expected 2 default cors origins, got %v", cfg.Gateway.CORSOrigins)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6390")

	cfg := LoadConfig()
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Fatalf("expected 90m ttl, got %s", cfg.Auth.TokenTTL)
	}
	if got := cfg.Gateway.CORSOrigins; len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected cors origins %v", got)
	}
	if cfg.Redis.DB != 3 {
		t.Fatalf("expected redis db 3, got %d", cfg.Redis.DB)
	}
	if cfg.Redis.Addr() != "cache:6390" {
		t.Fatalf("unexpected redis addr %s", cfg.Redis.Addr())
	}
}

func TestLoadConfigBadTTLFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")
	if got := LoadConfig().Auth.TokenTTL; got != 24*time.Hour {
		t.Fatalf("expected fallback ttl 24h, got %s", got)
	}
}
