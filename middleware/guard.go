package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"

	authgate "github.com/MrEthical07/authgate"
)

type decisionContextKey struct{}

// DecisionFromContext retrieves the gate decision stored by [Guard].
func DecisionFromContext(ctx context.Context) (*authgate.Decision, bool) {
	d, ok := ctx.Value(decisionContextKey{}).(*authgate.Decision)
	return d, ok
}

// errorBody is the JSON error envelope: a stable code plus a message.
type errorBody struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Guard wraps next with the full gate check. Allow-listed paths bypass the
// gate. Rejections answer 401 with the rejection's stable code; store
// failures answer 503 so monitoring can tell infrastructure degradation
// from auth noise.
func Guard(gate *authgate.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gate == nil {
				writeError(w, http.StatusUnauthorized, errorBody{Code: 40100, Msg: "unauthorized"})
				return
			}
			if gate.Bypass(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := headerToken(r.Header.Get(gate.HeaderName()))
			meta := authgate.RequestMeta{
				IP:     clientIP(r),
				Method: r.Method,
				Path:   r.URL.Path,
			}

			decision, err := gate.Check(r.Context(), token, meta)
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, errorBody{Code: 50301, Msg: "authentication backend unavailable"})
				return
			}
			if !decision.Allowed {
				writeError(w, http.StatusUnauthorized, errorBody{
					Code: decision.Reason.Code(),
					Msg:  decision.Reason.Message(),
				})
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey{}, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects guarded requests whose resolved role set does not
// contain role. Must run inside [Guard].
func RequireRole(role string) func(http.Handler) http.Handler {
	return require(func(d *authgate.Decision) bool { return d.HasRole(role) })
}

// RequirePermission rejects guarded requests whose resolved permission set
// does not contain perm. Must run inside [Guard].
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return require(func(d *authgate.Decision) bool { return d.HasPermission(perm) })
}

func require(allowed func(*authgate.Decision) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, ok := DecisionFromContext(r.Context())
			if !ok || !allowed(d) {
				writeError(w, http.StatusForbidden, errorBody{Code: 40300, Msg: "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// headerToken accepts both a bare token and the Bearer scheme.
func headerToken(value string) string {
	const bearer = "Bearer "
	if strings.HasPrefix(value, bearer) {
		return value[len(bearer):]
	}
	return value
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i > 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
