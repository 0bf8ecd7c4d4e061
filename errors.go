package authgate

import (
	"errors"

	"github.com/MrEthical07/authgate/store"
)

var (
	// ErrTokenMissing is returned when a request presents no token.
	ErrTokenMissing = errors.New("token missing")
	// ErrAccountLocked is returned when the principal carries a lock marker.
	ErrAccountLocked = errors.New("account locked")
	// ErrAccountDeleted is returned when the principal carries a soft-delete marker.
	ErrAccountDeleted = errors.New("account deleted")
	// ErrTokenRevoked is returned when the token is blacklisted (logged out).
	ErrTokenRevoked = errors.New("token revoked")
	// ErrTokenInvalid is returned when signature or expiry validation fails,
	// including tokens too malformed to decode.
	ErrTokenInvalid = errors.New("token expired or invalid")
	// ErrTokenStale is returned when a forced-refresh marker postdates the token.
	ErrTokenStale = errors.New("token stale, re-login required")

	// ErrPrincipalRequired is returned by marker operations called without a user id.
	ErrPrincipalRequired = errors.New("principal user id required")
	// ErrAuthorityLookup wraps role/permission provider failures. These are
	// system errors, never treated as "no permissions".
	ErrAuthorityLookup = errors.New("authority lookup failed")
)

// System error sentinels re-exported from the store so callers can classify
// infrastructure failures without importing the subpackage.
var (
	// ErrStoreUnavailable is an alias for store.ErrUnavailable.
	ErrStoreUnavailable = store.ErrUnavailable
	// ErrStoreTimeout is an alias for store.ErrTimeout.
	ErrStoreTimeout = store.ErrTimeout
)

// RejectReason identifies why a credential was rejected. The zero value
// means the credential was accepted.
type RejectReason uint8

const (
	// RejectNone means the credential passed every check.
	RejectNone RejectReason = iota
	// RejectTokenMissing — no token in the request.
	RejectTokenMissing
	// RejectAccountLocked — account-lock marker present.
	RejectAccountLocked
	// RejectAccountDeleted — soft-delete marker present.
	RejectAccountDeleted
	// RejectTokenRevoked — token present in the logout blacklist.
	RejectTokenRevoked
	// RejectTokenInvalid — signature or expiry validation failed.
	RejectTokenInvalid
	// RejectTokenStale — forced-refresh marker postdates the token.
	RejectTokenStale
)

// Code returns the stable client-facing code for the rejection. Codes are
// part of the wire contract and never change meaning.
func (r RejectReason) Code() int {
	switch r {
	case RejectTokenMissing:
		return 40101
	case RejectAccountLocked:
		return 40102
	case RejectAccountDeleted:
		return 40103
	case RejectTokenRevoked:
		return 40104
	case RejectTokenInvalid:
		return 40105
	case RejectTokenStale:
		return 40106
	default:
		return 0
	}
}

// Message returns the client-facing message paired with Code.
func (r RejectReason) Message() string {
	if err := r.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Err maps the reason to its sentinel error, or nil for RejectNone.
func (r RejectReason) Err() error {
	switch r {
	case RejectTokenMissing:
		return ErrTokenMissing
	case RejectAccountLocked:
		return ErrAccountLocked
	case RejectAccountDeleted:
		return ErrAccountDeleted
	case RejectTokenRevoked:
		return ErrTokenRevoked
	case RejectTokenInvalid:
		return ErrTokenInvalid
	case RejectTokenStale:
		return ErrTokenStale
	default:
		return nil
	}
}

// String names the reason for logs and audit records.
func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectTokenMissing:
		return "token_missing"
	case RejectAccountLocked:
		return "account_locked"
	case RejectAccountDeleted:
		return "account_deleted"
	case RejectTokenRevoked:
		return "token_revoked"
	case RejectTokenInvalid:
		return "token_expired_or_invalid"
	case RejectTokenStale:
		return "token_stale"
	default:
		return "unknown"
	}
}
