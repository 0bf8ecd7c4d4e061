package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Secret:     []byte("codec-test-secret"),
		Issuer:     "authgate-test",
		AccessTTL:  2 * time.Hour,
		RefreshTTL: 8 * time.Hour,
	}
}

func newCodec(t *testing.T, cfg Config) *Codec {
	t.Helper()

	codec, err := NewCodec(cfg)
	if err != nil {
		t.Fatalf("NewCodec failed: %v", err)
	}
	return codec
}

func TestNewCodecRejectsBadConfig(t *testing.T) {
	cases := map[string]func(*Config){
		"empty secret":     func(c *Config) { c.Secret = nil },
		"zero access ttl":  func(c *Config) { c.AccessTTL = 0 },
		"zero refresh ttl": func(c *Config) { c.RefreshTTL = 0 },
		"negative leeway":  func(c *Config) { c.Leeway = -time.Second },
		"huge leeway":      func(c *Config) { c.Leeway = time.Hour },
	}
	for name, mutate := range cases {
		cfg := testConfig()
		mutate(&cfg)
		if _, err := NewCodec(cfg); err == nil {
			t.Fatalf("%s: expected config error", name)
		}
	}
}

func TestCreateParseRoundTrip(t *testing.T) {
	codec := newCodec(t, testConfig())

	token, err := codec.Create("u1", []string{"user", "admin", "user", ""}, []string{"sys:user:list"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "u1" || claims.UserID() != "u1" {
		t.Fatalf("expected subject u1, got %s", claims.Subject)
	}
	if claims.Issuer != "authgate-test" {
		t.Fatalf("expected issuer authgate-test, got %s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatal("expected a token id claim")
	}

	roles := claims.RoleSet()
	if len(roles) != 2 || roles[0] != "admin" || roles[1] != "user" {
		t.Fatalf("expected deduplicated sorted roles [admin user], got %v", roles)
	}
	perms := claims.PermissionSet()
	if len(perms) != 1 || perms[0] != "sys:user:list" {
		t.Fatalf("expected permissions [sys:user:list], got %v", perms)
	}
}

func TestCreateEmptyUserID(t *testing.T) {
	codec := newCodec(t, testConfig())

	if _, err := codec.Create("", nil, nil); err == nil {
		t.Fatal("expected error for empty user id")
	}
	if _, err := codec.CreateRefresh(""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	codec := newCodec(t, testConfig())

	other := testConfig()
	other.Secret = []byte("different-secret")
	token, err := newCodec(t, other).Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := codec.Parse(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
	if codec.Validate(token) {
		t.Fatal("expected Validate to report false")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	codec := newCodec(t, testConfig())

	other := testConfig()
	other.Issuer = "someone-else"
	token, err := newCodec(t, other).Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := codec.Parse(token); err == nil {
		t.Fatal("expected issuer check to fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = time.Millisecond
	codec := newCodec(t, cfg)

	token, err := codec.Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := codec.Parse(token); err == nil {
		t.Fatal("expected expiry check to fail")
	}
	if codec.Validate(token) {
		t.Fatal("expected Validate to report false")
	}
}

func TestLeewayToleratesRecentExpiry(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTTL = 50 * time.Millisecond
	cfg.Leeway = time.Minute
	codec := newCodec(t, cfg)

	token, err := codec.Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	if !codec.Validate(token) {
		t.Fatal("expected leeway to tolerate a just-expired token")
	}
}

func TestSubjectWorksWithoutValidSignature(t *testing.T) {
	codec := newCodec(t, testConfig())

	other := testConfig()
	other.Secret = []byte("different-secret")
	forged, err := newCodec(t, other).Create("u7", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	uid, err := codec.Subject(forged)
	if err != nil {
		t.Fatalf("Subject failed: %v", err)
	}
	if uid != "u7" {
		t.Fatalf("expected u7, got %s", uid)
	}

	if _, err := codec.Subject("garbage"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestRemaining(t *testing.T) {
	codec := newCodec(t, testConfig())

	token, err := codec.Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	remaining := codec.Remaining(token)
	if remaining <= 90*time.Minute || remaining > 2*time.Hour {
		t.Fatalf("expected remaining near the access lifetime, got %v", remaining)
	}

	if got := codec.Remaining("garbage"); got != 0 {
		t.Fatalf("expected 0 for undecodable token, got %v", got)
	}

	short := testConfig()
	short.AccessTTL = time.Millisecond
	expired, err := newCodec(t, short).Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if got := codec.Remaining(expired); got > 0 {
		t.Fatalf("expected non-positive remaining for expired token, got %v", got)
	}
}

func TestCreateRefreshCarriesNoAuthority(t *testing.T) {
	codec := newCodec(t, testConfig())

	token, err := codec.CreateRefresh("u1")
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %s", claims.Subject)
	}
	if len(claims.RoleSet()) != 0 || len(claims.PermissionSet()) != 0 {
		t.Fatalf("expected no authority claims, got roles=%v perms=%v", claims.Roles, claims.Permissions)
	}

	remaining := codec.Remaining(token)
	if remaining <= 7*time.Hour {
		t.Fatalf("expected refresh lifetime, got %v", remaining)
	}
}

func TestParseRejectsUnsignedAlgorithm(t *testing.T) {
	codec := newCodec(t, testConfig())

	token, err := codec.Create("u1", nil, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Swap in an alg=none header; the signature must not be skippable.
	parts := strings.SplitN(token, ".", 3)
	tampered := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." + parts[1] + "."
	if _, err := codec.Parse(tampered); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}
