package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantEcho(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte(TenantFromContext(r.Context())))
}

func TestRequireTenant(t *testing.T) {
	auth := NewTokenAuth("secret")
	token, err := auth.Issue("admin@mavi", "s1", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	auth.RequireTenant(tenantEcho)(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s1", rec.Body.String())
}

func TestRequireTenantRejects(t *testing.T) {
	auth := NewTokenAuth("secret")
	expired, err := auth.Issue("a", "s1", -time.Minute)
	require.NoError(t, err)
	foreign, err := NewTokenAuth("other").Issue("a", "s1", time.Hour)
	require.NoError(t, err)
	noTenant, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":   "",
		"scheme":    "Basic abc",
		"expired":   "Bearer " + expired,
		"signature": "Bearer " + foreign,
		"tenant":    "Bearer " + noTenant,
	} {
		req := httptest.NewRequest(http.MethodGet, "/admin/products", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		auth.RequireTenant(tenantEcho)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestUnconfiguredAuthFailsClosed(t *testing.T) {
	_, err := NewTokenAuth("").Validate("anything")
	assert.ErrorContains(t, err, "not configured")
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/analytics", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusAccepted, http.StatusAccepted, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/analytics", nil)
	other.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	handler(rec, other)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req, nil))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "192.0.2.1", ClientIP(req, nil), "forwarded header from an untrusted peer is ignored")

	proxies := []netip.Prefix{netip.MustParsePrefix("192.0.2.0/24"), netip.MustParsePrefix("10.0.0.0/8")}
	assert.Equal(t, "203.0.113.7", ClientIP(req, proxies))

	req.Header.Set("X-Forwarded-For", "198.51.100.9, 203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", ClientIP(req, proxies), "spoofed leading hops are skipped")

	req.Header.Set("X-Forwarded-For", "10.0.0.5")
	assert.Equal(t, "192.0.2.1", ClientIP(req, proxies))

	req.Header.Set("X-Forwarded-For", "garbage")
	assert.Equal(t, "192.0.2.1", ClientIP(req, proxies))

	req.RemoteAddr = "[::1]:80"
	assert.Equal(t, "::1", ClientIP(req, proxies))
}

func TestRateLimiterIgnoresRotatedForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	h := rl.Limit(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "198.51.100.20:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusAccepted, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)

	trusting := NewRateLimiter(0.001, 1).WithTrustedProxies([]netip.Prefix{netip.MustParsePrefix("198.51.100.20/32")})
	h = trusting.Limit(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusAccepted) })
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "198.51.100.20:5000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h(rec, req)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}
}

func TestSecureHeadersAndLogging(t *testing.T) {
	h := LogRequests(SecureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}
