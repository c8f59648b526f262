package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// staticVerifier accepts or rejects every token unconditionally.
type staticVerifier struct {
	valid bool
}

func (v staticVerifier) Verify(ctx context.Context, token string) bool {
	return v.valid
}

func TestAccessGate_Decide(t *testing.T) {
	gate := NewAccessGate(nil, "token")

	tests := []struct {
		name          string
		path          string
		authenticated bool
		expected      Decision
	}{
		{"Root without session", "/", false, Allow},
		{"Root with session", "/", true, Allow},
		{"Login without session", "/login", false, Allow},
		{"Login with session redirects to dashboard", "/login", true, RedirectDashboard},
		{"Ticket view without session", "/ticket/TKT-ABCDE", false, Allow},
		{"Ticket view with session", "/ticket/TKT-ABCDE", true, Allow},
		{"Dashboard without session", "/dashboard", false, RedirectLogin},
		{"Dashboard with session", "/dashboard", true, Allow},
		{"Arbitrary page without session", "/settings", false, RedirectLogin},
		{"Arbitrary page with session", "/settings", true, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, gate.Decide(tt.path, tt.authenticated))
		})
	}
}

func TestIsPublicPath(t *testing.T) {
	assert.True(t, IsPublicPath("/"))
	assert.True(t, IsPublicPath("/login"))
	assert.True(t, IsPublicPath("/ticket/TKT-ABCDE"))
	assert.False(t, IsPublicPath("/dashboard"))
	assert.False(t, IsPublicPath("/ticket")) // only the detail views are public
}

func TestIsExemptPath(t *testing.T) {
	assert.True(t, isExemptPath("/api/tickets"))
	assert.True(t, isExemptPath("/_/"))
	assert.True(t, isExemptPath("/health"))
	assert.True(t, isExemptPath("/favicon.ico"))
	assert.False(t, isExemptPath("/dashboard"))
	assert.False(t, isExemptPath("/"))
}

func TestAccessGate_DecideRequest(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		withCookie bool
		verifies   bool
		expected   Decision
	}{
		{"Unverifiable token reads as absent", "/dashboard", true, false, RedirectLogin},
		{"Verified token allows private page", "/dashboard", true, true, Allow},
		{"Verified token on login redirects to dashboard", "/login", true, true, RedirectDashboard},
		{"No cookie skips verification", "/dashboard", false, true, RedirectLogin},
		{"Unverifiable token on public page", "/ticket/TKT-ABCDE", true, false, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewAccessGate(staticVerifier{valid: tt.verifies}, "token")

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.withCookie {
				req.AddCookie(&http.Cookie{Name: "token", Value: "some-token"})
			}

			assert.Equal(t, tt.expected, gate.DecideRequest(req))
		})
	}
}

func TestAccessGate_TokenFromRequest(t *testing.T) {
	gate := NewAccessGate(nil, "token")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	assert.Empty(t, gate.TokenFromRequest(req))

	req.AddCookie(&http.Cookie{Name: "token", Value: "abc123"})
	assert.Equal(t, "abc123", gate.TokenFromRequest(req))
}

func TestAccessGate_TokenFromRequest_CustomCookieName(t *testing.T) {
	gate := NewAccessGate(nil, "session")

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "abc123"})

	assert.Empty(t, gate.TokenFromRequest(req))
}
