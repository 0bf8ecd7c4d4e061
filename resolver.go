package authgate

import (
	"context"
	"fmt"

	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/store"
)

// resolver produces the effective role/permission set for an accepted
// token. The token's embedded claims are authoritative unless a
// forced-refresh marker postdates the token, in which case authority is
// fetched fresh from the provider. Tokens minted after the marker carry
// the new authority in their own claims, so the downgrade applies exactly
// once per marker lifetime.
type resolver struct {
	codec    *jwt.Codec
	store    *store.Store
	cache    *AuthCache
	provider AuthorityProvider
	metrics  *Metrics
}

// resolve returns the effective authority for the accepted claims.
func (r *resolver) resolve(ctx context.Context, rawToken string, claims *jwt.Claims) (*CachedAuthorization, error) {
	userID := claims.Subject

	stale, err := markerPostdates(ctx, r.store, r.codec, userID, rawToken)
	if err != nil {
		return nil, err
	}
	if stale {
		info, err := r.fetch(ctx, userID)
		if err != nil {
			return nil, err
		}
		r.metrics.Inc(MetricFreshResolve)
		if err := r.cache.Put(ctx, userID, info); err != nil {
			return nil, err
		}
		return info, nil
	}

	cached, err := r.cache.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		r.metrics.Inc(MetricCacheHit)
		return cached, nil
	}
	r.metrics.Inc(MetricCacheMiss)

	info := &CachedAuthorization{
		Roles:       claims.RoleSet(),
		Permissions: claims.PermissionSet(),
	}
	if err := r.cache.Put(ctx, userID, info); err != nil {
		return nil, err
	}
	return info, nil
}

// fetch reads authority from the collaborator lookups. Any failure is a
// system error; it is never silently treated as "no permissions".
func (r *resolver) fetch(ctx context.Context, userID string) (*CachedAuthorization, error) {
	roles, err := r.provider.RoleNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: roles for %s: %v", ErrAuthorityLookup, userID, err)
	}
	permissions, err := r.provider.Permissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: permissions for %s: %v", ErrAuthorityLookup, userID, err)
	}
	return &CachedAuthorization{Roles: roles, Permissions: permissions}, nil
}
