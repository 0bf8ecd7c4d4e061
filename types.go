package authgate

import "context"

// AuthorityProvider is the collaborator interface callers implement to
// expose role and permission lookups from their own persistence layer.
// It is only consulted on the fresh-resolution path, never on the claims
// fast path.
type AuthorityProvider interface {
	RoleNames(ctx context.Context, userID string) ([]string, error)
	Permissions(ctx context.Context, userID string) ([]string, error)
}

// CachedAuthorization is the decoded role/permission set for a principal
// as stored in the authorization cache.
type CachedAuthorization struct {
	Roles       []string
	Permissions []string
}

// Decision is the structured outcome of [Gate.CheckRequest]. Either
// Allowed is true and Principal/Roles/Permissions are populated, or
// Allowed is false and Reason identifies the rejection.
type Decision struct {
	Allowed     bool
	Principal   string
	Roles       []string
	Permissions []string
	Reason      RejectReason
}

// HasRole reports whether the resolved role set contains name.
func (d *Decision) HasRole(name string) bool {
	return contains(d.Roles, name)
}

// HasPermission reports whether the resolved permission set contains name.
func (d *Decision) HasPermission(name string) bool {
	return contains(d.Permissions, name)
}

func contains(set []string, name string) bool {
	for _, v := range set {
		if v == name {
			return true
		}
	}
	return false
}

// RequestMeta carries request metadata down the call chain explicitly so
// the audit record can name the caller without hidden request-context
// globals.
type RequestMeta struct {
	IP     string
	Method string
	Path   string
}
