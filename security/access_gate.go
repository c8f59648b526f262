package security

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

// Decision is the outcome of the access gate for one request path.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDashboard
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
)

// TokenVerifier checks a session token against the auth backend. The gate
// never trusts cookie presence alone: an unverifiable token reads as no
// session.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) bool
}

// AuthTokenVerifier resolves tokens against PocketBase auth records.
type AuthTokenVerifier struct {
	app core.App
}

func NewAuthTokenVerifier(app core.App) *AuthTokenVerifier {
	return &AuthTokenVerifier{app: app}
}

func (v *AuthTokenVerifier) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	_, err := v.app.FindAuthRecordByToken(token, core.TokenTypeAuth)
	return err == nil
}

// AccessGate decides, once per incoming request and before any route
// logic, whether a path is reachable without a session.
type AccessGate struct {
	verifier   TokenVerifier
	cookieName string
}

func NewAccessGate(verifier TokenVerifier, cookieName string) *AccessGate {
	return &AccessGate{verifier: verifier, cookieName: cookieName}
}

// IsPublicPath reports whether a path is reachable without a session:
// the root, the login page, and the shared per-ticket detail views.
func IsPublicPath(path string) bool {
	return path == "/" || path == loginPath || strings.HasPrefix(path, "/ticket/")
}

// isExemptPath reports paths the gate does not evaluate at all: the API
// namespace, the built-in admin UI, health and static assets.
func isExemptPath(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/_/") ||
		strings.HasPrefix(path, "/static/") ||
		path == "/health" ||
		path == "/favicon.ico"
}

// Decide is the pure routing policy. It never fails: the worst case is a
// redirect, not an error.
func (g *AccessGate) Decide(path string, authenticated bool) Decision {
	if authenticated && path == loginPath {
		return RedirectDashboard
	}
	if !IsPublicPath(path) && !authenticated {
		return RedirectLogin
	}
	return Allow
}

// TokenFromRequest extracts the session token cookie value, if any.
func (g *AccessGate) TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// DecideRequest resolves the session from the request cookie and applies
// the routing policy. A present but unverifiable token reads as no
// session.
func (g *AccessGate) DecideRequest(r *http.Request) Decision {
	token := g.TokenFromRequest(r)
	authenticated := token != "" && g.verifier.Verify(r.Context(), token)
	return g.Decide(r.URL.Path, authenticated)
}

// Middleware evaluates the gate for every page request on the router.
func (g *AccessGate) Middleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		path := e.Request.URL.Path
		if isExemptPath(path) {
			return e.Next()
		}

		switch g.DecideRequest(e.Request) {
		case RedirectLogin:
			return e.Redirect(http.StatusTemporaryRedirect, loginPath)
		case RedirectDashboard:
			return e.Redirect(http.StatusTemporaryRedirect, dashboardPath)
		}
		return e.Next()
	}
}
