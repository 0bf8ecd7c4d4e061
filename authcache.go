package authgate

import (
	"context"
	"time"

	"github.com/MrEthical07/authgate/jwt"
	"github.com/MrEthical07/authgate/store"
)

// AuthCache is a typed mapping from principal id to [CachedAuthorization],
// layered on the revocation store's key-value substrate under its own
// prefix. A token can be reissued many times, so cache keys are always the
// user id: callers may present either a raw token or a principal id and
// the cache normalizes internally.
//
// Clear, Size, Keys, and Values enumerate by prefix scan and are O(number
// of cached principals); they are administrative operations, not hot-path.
type AuthCache struct {
	codec *jwt.Codec
	store *store.Store
	ttl   time.Duration
}

// NewAuthCache builds a cache over the given store. Entries expire after
// ttl.
func NewAuthCache(codec *jwt.Codec, st *store.Store, ttl time.Duration) *AuthCache {
	return &AuthCache{codec: codec, store: st, ttl: ttl}
}

// cacheKey normalizes a raw token or principal id to the store key. A
// value that decodes as a token contributes its subject; anything else is
// taken as a principal id verbatim.
func (c *AuthCache) cacheKey(tokenOrID string) string {
	if uid, err := c.codec.Subject(tokenOrID); err == nil && uid != "" {
		return PrefixAuthCache + uid
	}
	return PrefixAuthCache + tokenOrID
}

// Get returns the cached authorization for the principal, or nil when
// absent.
func (c *AuthCache) Get(ctx context.Context, tokenOrID string) (*CachedAuthorization, error) {
	if tokenOrID == "" {
		return nil, nil
	}
	data, found, err := c.store.Get(ctx, c.cacheKey(tokenOrID))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	info, err := decodeCacheRecord(data)
	if err != nil {
		// A corrupt entry behaves like a miss; the next Put overwrites it.
		return nil, nil
	}
	return info, nil
}

// Put stores the authorization for the principal with the cache TTL.
func (c *AuthCache) Put(ctx context.Context, tokenOrID string, info *CachedAuthorization) error {
	if tokenOrID == "" || info == nil {
		return nil
	}
	data, err := encodeCacheRecord(info)
	if err != nil {
		return err
	}
	return c.store.SetTTL(ctx, c.cacheKey(tokenOrID), string(data), c.ttl)
}

// Remove drops the principal's cached authorization.
func (c *AuthCache) Remove(ctx context.Context, tokenOrID string) error {
	if tokenOrID == "" {
		return nil
	}
	return c.store.Delete(ctx, c.cacheKey(tokenOrID))
}

// Clear removes every cached entry. Revocation markers live under other
// prefixes and are untouched.
func (c *AuthCache) Clear(ctx context.Context) error {
	keys, err := c.store.ScanPrefix(ctx, PrefixAuthCache)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Size reports the number of cached principals.
func (c *AuthCache) Size(ctx context.Context) (int, error) {
	keys, err := c.store.ScanPrefix(ctx, PrefixAuthCache)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Keys returns the full store keys of all cached entries.
func (c *AuthCache) Keys(ctx context.Context) ([]string, error) {
	return c.store.ScanPrefix(ctx, PrefixAuthCache)
}

// Values returns all cached authorization entries. Entries that fail to
// decode are skipped.
func (c *AuthCache) Values(ctx context.Context) ([]*CachedAuthorization, error) {
	keys, err := c.store.ScanPrefix(ctx, PrefixAuthCache)
	if err != nil {
		return nil, err
	}
	out := make([]*CachedAuthorization, 0, len(keys))
	for _, key := range keys {
		data, found, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		info, err := decodeCacheRecord(data)
		if err != nil {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}
