package jwt

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrMalformed is returned when a token cannot be decoded at all, as
// opposed to decoding fine but failing signature or expiry checks.
var ErrMalformed = errors.New("malformed token")

// Config holds the signing material and lifetimes for the codec.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Leeway     time.Duration
}

// Claims is the decoded payload of an authgate token. UserID lives in the
// registered "sub" claim; roles and permissions use the legacy claim keys.
type Claims struct {
	Roles       []string `json:"jwt-roles-key,omitempty"`
	Permissions []string `json:"jwt-per-key,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the principal the token was issued to.
func (c *Claims) UserID() string {
	return c.Subject
}

// RoleSet returns the embedded role names, deduplicated and sorted.
func (c *Claims) RoleSet() []string {
	return normalizeSet(c.Roles)
}

// PermissionSet returns the embedded permission names, deduplicated and sorted.
func (c *Claims) PermissionSet() []string {
	return normalizeSet(c.Permissions)
}

// Codec creates and verifies tokens. It is side-effect-free and safe for
// concurrent use.
type Codec struct {
	config Config
}

// NewCodec validates cfg and returns a ready codec.
func NewCodec(cfg Config) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("hs256 requires signing secret")
	}
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid access TTL configuration")
	}
	if cfg.RefreshTTL <= 0 {
		return nil, errors.New("invalid refresh TTL configuration")
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	return &Codec{config: cfg}, nil
}

// AccessTTL reports the configured access-token lifetime.
func (c *Codec) AccessTTL() time.Duration {
	return c.config.AccessTTL
}

// Create issues a signed access token for userID carrying the given role
// and permission names.
func (c *Codec) Create(userID string, roles, permissions []string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	return c.sign(userID, normalizeSet(roles), normalizeSet(permissions), c.config.AccessTTL)
}

// CreateRefresh issues a signed refresh token for userID. Refresh tokens
// carry no authority claims; roles are re-resolved at exchange time.
func (c *Codec) CreateRefresh(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	return c.sign(userID, nil, nil, c.config.RefreshTTL)
}

func (c *Codec) sign(userID string, roles, permissions []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Roles:       roles,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    c.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.Secret)
}

// Parse fully verifies tokenStr (signature, expiry, issuer) and returns its
// claims.
func (c *Codec) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(c.config.Leeway))
	}
	if c.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(c.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
		}
		return c.config.Secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Validate reports whether tokenStr carries a valid signature and is not
// expired.
func (c *Codec) Validate(tokenStr string) bool {
	_, err := c.Parse(tokenStr)
	return err == nil
}

// Subject extracts the user id from tokenStr WITHOUT verifying the
// signature. Callers use this for revocation-marker lookups that must run
// before full validation; the result must never be trusted as an
// authenticated principal.
func (c *Codec) Subject(tokenStr string) (string, error) {
	claims, err := c.unverified(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Remaining returns the token's remaining lifetime, zero or negative when
// the token is expired, carries no expiry, or cannot be decoded. The
// signature is not checked.
func (c *Codec) Remaining(tokenStr string) time.Duration {
	claims, err := c.unverified(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}

func (c *Codec) unverified(tokenStr string) (*Claims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(tokenStr, &Claims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformed
	}
	return claims, nil
}

func normalizeSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
