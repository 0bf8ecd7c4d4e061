package authgate

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type mockProvider struct {
	roles map[string][]string
	perms map[string][]string

	roleCalls int
	permCalls int
	fail      error
}

func (p *mockProvider) RoleNames(_ context.Context, userID string) ([]string, error) {
	p.roleCalls++
	if p.fail != nil {
		return nil, p.fail
	}
	return p.roles[userID], nil
}

func (p *mockProvider) Permissions(_ context.Context, userID string) ([]string, error) {
	p.permCalls++
	if p.fail != nil {
		return nil, p.fail
	}
	return p.perms[userID], nil
}

func defaultMockProvider() *mockProvider {
	return &mockProvider{
		roles: map[string][]string{"u1": {"user"}},
		perms: map[string][]string{"u1": {"order:read"}},
	}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, rdb
}

func gateTestConfig() Config {
	cfg := defaultConfig()
	cfg.JWT.Secret = "gate-test-secret"
	cfg.JWT.Issuer = "authgate-test"
	return cfg
}

func newTestGate(t *testing.T, cfg Config, provider *mockProvider) (*Gate, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, rdb := newTestRedis(t)

	gate, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithAuthorityProvider(provider).
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).
		Build()
	if err != nil {
		mr.Close()
		t.Fatalf("Build failed: %v", err)
	}

	return gate, mr, func() {
		gate.Close()
		mr.Close()
	}
}
