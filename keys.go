package authgate

// Redis key namespace. These prefixes are shared with pre-existing store
// contents and must be preserved bit-exact.
const (
	// PrefixAccountLock marks a locked account; key = prefix + userID.
	PrefixAccountLock = "account:lock:"
	// PrefixDeletedUser marks a soft-deleted account; key = prefix + userID.
	PrefixDeletedUser = "deleted:user:"
	// PrefixTokenBlacklist marks a logged-out token; key = prefix + token.
	PrefixTokenBlacklist = "jwt:access:token:blacklist:"
	// PrefixRefreshMark marks a forced permission refresh; key = prefix + userID.
	PrefixRefreshMark = "jwt:refresh:key:"
	// PrefixAuthCache scopes cached authorization info; key = prefix + userID.
	PrefixAuthCache = "shiro:cache:identify:"
)

// DefaultHeader is the request header the token is presented in unless
// configured otherwise.
const DefaultHeader = "authorization"
