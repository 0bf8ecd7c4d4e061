package authgate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	internalaudit "github.com/MrEthical07/authgate/internal/audit"
	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/store"
)

// Gate orchestrates the request-time authentication and authorization
// pipeline. Build one with [New]; a Gate is immutable and safe for
// concurrent use.
type Gate struct {
	config     Config
	codec      *jwt.Codec
	store      *store.Store
	cache      *AuthCache
	validator  *validator
	resolver   *resolver
	provider   AuthorityProvider
	dispatcher *internalaudit.Dispatcher
	metrics    *Metrics
	logger     *slog.Logger
}

// CheckRequest runs the full pipeline for rawToken without request
// metadata. See [Gate.Check].
func (g *Gate) CheckRequest(ctx context.Context, rawToken string) (*Decision, error) {
	return g.Check(ctx, rawToken, RequestMeta{})
}

// Check runs the full pipeline: ordered credential checks, then
// authorization resolution. A non-nil error means the store or a
// collaborator lookup failed and the request must fail as a system error;
// rejections are returned inside the Decision, never as errors.
func (g *Gate) Check(ctx context.Context, rawToken string, meta RequestMeta) (*Decision, error) {
	start := time.Now()

	claims, reason, err := g.validator.check(ctx, rawToken)
	if err != nil {
		return nil, g.systemFailure(ctx, "access.check", "", meta, start, err)
	}
	if reason != RejectNone {
		g.metrics.Inc(rejectMetric(reason))
		g.metrics.Observe(MetricCheckLatency, time.Since(start))
		g.emit(ctx, "access.check", principalForAudit(g.codec, rawToken), meta, start, false, reason.String(), nil)
		g.logger.DebugContext(ctx, "access denied",
			slog.String("reason", reason.String()),
			slog.Int("code", reason.Code()),
		)
		return &Decision{Reason: reason}, nil
	}

	info, err := g.resolver.resolve(ctx, rawToken, claims)
	if err != nil {
		return nil, g.systemFailure(ctx, "access.check", claims.Subject, meta, start, err)
	}

	g.metrics.Inc(MetricAllow)
	g.metrics.Observe(MetricCheckLatency, time.Since(start))
	g.emit(ctx, "access.check", claims.Subject, meta, start, true, "", nil)

	return &Decision{
		Allowed:     true,
		Principal:   claims.Subject,
		Roles:       info.Roles,
		Permissions: info.Permissions,
	}, nil
}

// Issue mints an access and refresh token pair for userID with freshly
// resolved authority. Called at login time, after the caller has verified
// credentials through its own means.
func (g *Gate) Issue(ctx context.Context, userID string) (accessToken, refreshToken string, err error) {
	if userID == "" {
		return "", "", ErrPrincipalRequired
	}
	info, err := g.resolver.fetch(ctx, userID)
	if err != nil {
		return "", "", err
	}
	accessToken, err = g.codec.Create(userID, info.Roles, info.Permissions)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = g.codec.CreateRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// OnLogout blacklists rawToken for exactly its remaining lifetime, so the
// blacklist entry and the token expire together. Calling it twice is safe:
// the second call re-sets an already-present key. An already-expired token
// needs no marker at all.
func (g *Gate) OnLogout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return ErrTokenMissing
	}

	remaining := g.codec.Remaining(rawToken)
	if remaining > 0 {
		if err := g.store.SetTTL(ctx, PrefixTokenBlacklist+rawToken, "1", remaining); err != nil {
			g.metrics.Inc(MetricStoreError)
			return err
		}
	}

	principal := ""
	if uid, err := g.codec.Subject(rawToken); err == nil && uid != "" {
		principal = uid
		if err := g.cache.Remove(ctx, uid); err != nil {
			g.metrics.Inc(MetricStoreError)
			return err
		}
	}

	g.metrics.Inc(MetricLogout)
	g.emit(ctx, "logout", principal, RequestMeta{}, time.Now(), true, "", nil)
	return nil
}

// OnPermissionsChanged plants a forced-refresh marker for userID after an
// administrator changed the principal's roles or permissions. window is
// the new access-token lifetime; zero uses the configured lifetime.
// Outstanding tokens older than the marker stop trusting their embedded
// claims until they are reissued.
func (g *Gate) OnPermissionsChanged(ctx context.Context, userID string, window time.Duration) error {
	if userID == "" {
		return ErrPrincipalRequired
	}
	if window <= 0 {
		window = g.config.JWT.AccessTTL
	}
	if err := g.store.SetTTL(ctx, PrefixRefreshMark+userID, "1", window); err != nil {
		g.metrics.Inc(MetricStoreError)
		return err
	}
	g.metrics.Inc(MetricForcedRefresh)
	g.emit(ctx, "permissions.changed", userID, RequestMeta{}, time.Now(), true, "",
		map[string]string{"window": window.String()})
	return nil
}

// RefreshToken exchanges a valid refresh token for a new access token with
// freshly resolved authority. Lock and delete markers reject the exchange.
func (g *Gate) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := g.codec.Parse(refreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	userID := claims.Subject

	locked, err := g.store.Has(ctx, PrefixAccountLock+userID)
	if err != nil {
		return "", err
	}
	if locked {
		return "", ErrAccountLocked
	}
	deleted, err := g.store.Has(ctx, PrefixDeletedUser+userID)
	if err != nil {
		return "", err
	}
	if deleted {
		return "", ErrAccountDeleted
	}

	info, err := g.resolver.fetch(ctx, userID)
	if err != nil {
		return "", err
	}
	access, err := g.codec.Create(userID, info.Roles, info.Permissions)
	if err != nil {
		return "", err
	}
	g.metrics.Inc(MetricTokenRefreshed)
	g.emit(ctx, "token.refresh", userID, RequestMeta{}, time.Now(), true, "", nil)
	return access, nil
}

// LockAccount plants an account-lock marker. A positive ttl expires the
// lock; zero keeps it until [Gate.UnlockAccount]. Presence is the signal,
// so a lock TTL longer than any outstanding token wastes storage but is
// never a correctness bug.
func (g *Gate) LockAccount(ctx context.Context, userID string, ttl time.Duration) error {
	return g.setMarker(ctx, "account.lock", PrefixAccountLock, userID, ttl)
}

// UnlockAccount removes the account-lock marker.
func (g *Gate) UnlockAccount(ctx context.Context, userID string) error {
	return g.removeMarker(ctx, "account.unlock", PrefixAccountLock, userID)
}

// MarkDeleted plants a soft-delete marker. Stateless tokens cannot observe
// a row's is_deleted flag, so deletion is mirrored into the store.
func (g *Gate) MarkDeleted(ctx context.Context, userID string) error {
	return g.setMarker(ctx, "account.delete", PrefixDeletedUser, userID, 0)
}

// UnmarkDeleted removes the soft-delete marker after an account is
// restored.
func (g *Gate) UnmarkDeleted(ctx context.Context, userID string) error {
	return g.removeMarker(ctx, "account.restore", PrefixDeletedUser, userID)
}

func (g *Gate) setMarker(ctx context.Context, op, prefix, userID string, ttl time.Duration) error {
	if userID == "" {
		return ErrPrincipalRequired
	}
	if err := g.store.SetTTL(ctx, prefix+userID, "1", ttl); err != nil {
		g.metrics.Inc(MetricStoreError)
		return err
	}
	g.emit(ctx, op, userID, RequestMeta{}, time.Now(), true, "", nil)
	return nil
}

func (g *Gate) removeMarker(ctx context.Context, op, prefix, userID string) error {
	if userID == "" {
		return ErrPrincipalRequired
	}
	if err := g.store.Delete(ctx, prefix+userID); err != nil {
		g.metrics.Inc(MetricStoreError)
		return err
	}
	g.emit(ctx, op, userID, RequestMeta{}, time.Now(), true, "", nil)
	return nil
}

// Bypass reports whether path is on the static allow-list and skips the
// gate entirely.
func (g *Gate) Bypass(path string) bool {
	for _, entry := range g.config.HTTP.AllowList {
		if entry == path {
			return true
		}
		if strings.HasSuffix(entry, "*") && strings.HasPrefix(path, strings.TrimSuffix(entry, "*")) {
			return true
		}
	}
	return false
}

// HeaderName returns the configured token header.
func (g *Gate) HeaderName() string {
	return g.config.HTTP.Header
}

// Cache exposes the authorization cache for administrative operations.
func (g *Gate) Cache() *AuthCache {
	return g.cache
}

// Codec exposes the token codec, primarily for login handlers that need
// to mint tokens with externally computed authority.
func (g *Gate) Codec() *jwt.Codec {
	return g.codec
}

// MetricsSnapshot returns a deep copy of all metrics, for exporters.
func (g *Gate) MetricsSnapshot() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (g *Gate) AuditDropped() uint64 {
	return g.dispatcher.Dropped()
}

// Close drains and stops the audit dispatcher.
func (g *Gate) Close() {
	g.dispatcher.Close()
}

func (g *Gate) systemFailure(ctx context.Context, op, principal string, meta RequestMeta, start time.Time, err error) error {
	g.metrics.Inc(MetricStoreError)
	g.emit(ctx, op, principal, meta, start, false, "system_error", nil)
	g.logger.ErrorContext(ctx, "auth infrastructure failure",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	return err
}

func (g *Gate) emit(ctx context.Context, op, principal string, meta RequestMeta, start time.Time, success bool, reason string, params map[string]string) {
	g.dispatcher.Emit(ctx, internalaudit.Event{
		Timestamp:  time.Now(),
		Operation:  op,
		Principal:  principal,
		IP:         meta.IP,
		Method:     meta.Method,
		Path:       meta.Path,
		Params:     params,
		DurationMS: time.Since(start).Milliseconds(),
		Success:    success,
		Reason:     reason,
	})
}

// principalForAudit pulls a user id out of a possibly invalid token for
// the audit trail only; it is never used as an authenticated identity.
func principalForAudit(codec *jwt.Codec, rawToken string) string {
	if rawToken == "" {
		return ""
	}
	uid, err := codec.Subject(rawToken)
	if err != nil {
		return ""
	}
	return uid
}
