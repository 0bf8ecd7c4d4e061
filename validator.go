package authgate

import (
	"context"

	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/store"
)

// validator runs the ordered credential checks. The check order is a wire
// contract: earlier checks win on ties, and the lock/delete lookups run
// before signature validation on purpose so an operator action rejects
// even tokens we would otherwise refuse for different reasons.
type validator struct {
	codec *jwt.Codec
	store *store.Store

	// rejectStale turns a fresher forced-refresh marker into a terminal
	// TOKEN_STALE rejection. When false the marker is left to the
	// resolver, which re-fetches authority instead of denying.
	rejectStale bool
}

// check evaluates rawToken and returns the verified claims on acceptance,
// a rejection reason, or a system error. A system error means the store
// could not be consulted and the caller must fail the request as
// infrastructure degradation, not as an auth rejection.
func (v *validator) check(ctx context.Context, rawToken string) (*jwt.Claims, RejectReason, error) {
	if rawToken == "" {
		return nil, RejectTokenMissing, nil
	}

	// The user id is parsed without trusting the token yet: lock and
	// delete markers must reject even tokens that would fail validation.
	// A token too malformed to yield a subject skips these two checks and
	// is rejected by signature validation below.
	userID, _ := v.codec.Subject(rawToken)

	if userID != "" {
		locked, err := v.store.Has(ctx, PrefixAccountLock+userID)
		if err != nil {
			return nil, RejectNone, err
		}
		if locked {
			return nil, RejectAccountLocked, nil
		}

		deleted, err := v.store.Has(ctx, PrefixDeletedUser+userID)
		if err != nil {
			return nil, RejectNone, err
		}
		if deleted {
			return nil, RejectAccountDeleted, nil
		}
	}

	blacklisted, err := v.store.Has(ctx, PrefixTokenBlacklist+rawToken)
	if err != nil {
		return nil, RejectNone, err
	}
	if blacklisted {
		return nil, RejectTokenRevoked, nil
	}

	claims, err := v.codec.Parse(rawToken)
	if err != nil {
		// Malformed tokens fold into the same rejection as expired ones.
		return nil, RejectTokenInvalid, nil
	}

	if v.rejectStale {
		stale, err := markerPostdates(ctx, v.store, v.codec, claims.Subject, rawToken)
		if err != nil {
			return nil, RejectNone, err
		}
		if stale {
			return nil, RejectTokenStale, nil
		}
	}

	return claims, RejectNone, nil
}

// markerPostdates implements the forced-refresh staleness comparison shared
// by the validator and the resolver: the marker's remaining TTL against the
// token's remaining lifetime, as a proxy for issuance order. The proxy is
// only sound while every token in a marker window shares the same maximum
// lifetime configuration; that is the inherited contract and it is kept
// as-is.
func markerPostdates(ctx context.Context, st *store.Store, codec *jwt.Codec, userID, rawToken string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	ttl, err := st.TTL(ctx, PrefixRefreshMark+userID)
	if err != nil {
		return false, err
	}
	if ttl <= 0 {
		return false, nil
	}
	return ttl > codec.Remaining(rawToken), nil
}
