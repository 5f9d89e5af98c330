package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the dashboard token claims. TenantID is the store the
// administrator manages.
type Claims struct {
	jwt.RegisteredClaims
	TenantID string `json:"tenant_id"`
}

type contextKey struct{}

// WithTenant stores the authenticated tenant in ctx
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, contextKey{}, tenantID)
}

// TenantFromContext returns the authenticated tenant, or "" outside RequireTenant
func TenantFromContext(ctx context.Context) string {
	tenantID, _ := ctx.Value(contextKey{}).(string)
	return tenantID
}

// TokenAuth validates HS256 dashboard tokens
type TokenAuth struct {
	secret []byte
}

func NewTokenAuth(secret string) *TokenAuth {
	return &TokenAuth{secret: []byte(secret)}
}

// Issue signs a token for tenantID valid for ttl
func (a *TokenAuth) Issue(subject, tenantID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TenantID: tenantID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Validate parses tokenStr and returns its claims
func (a *TokenAuth) Validate(tokenStr string) (*Claims, error) {
	if len(a.secret) == 0 {
		return nil, errors.New("authentication not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TenantID == "" {
		return nil, errors.New("token tenant binding is required")
	}
	return claims, nil
}

// RequireTenant rejects requests without a valid Bearer token and puts the
// token's tenant into the request context
func (a *TokenAuth) RequireTenant(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenStr) == "" {
			log.Printf("❌ Auth: missing bearer token for %s", r.URL.Path)
			http.Error(w, "Missing or malformed Authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := a.Validate(strings.TrimSpace(tokenStr))
		if err != nil {
			log.Printf("❌ Auth: %v", err)
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithTenant(r.Context(), claims.TenantID)))
	}
}
