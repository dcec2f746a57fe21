// Package auth guards the trigger API with a shared service token.
// The suite's web application signs a short-lived HS256 JWT per call;
// this service only verifies it and never issues tokens of its own.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"resto-notify/internal/handler/http/respond"
)

type ctxKey string

const ctxCaller ctxKey = "caller"

// allowedRoles are the role claims accepted on protected endpoints.
var allowedRoles = map[string]bool{
	"service": true,
	"admin":   true,
}

// publicPrefixes are reachable without a token: probes and metrics.
var publicPrefixes = []string{
	"/health",
	"/ready",
	"/live",
	"/metrics",
}

// IsPublicEndpoint reports whether the path requires no token.
func IsPublicEndpoint(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// CallerFromContext returns the authenticated caller (the JWT sub
// claim), or the empty string on public endpoints.
func CallerFromContext(ctx context.Context) string {
	if caller, ok := ctx.Value(ctxCaller).(string); ok {
		return caller
	}
	return ""
}

// Authz requires a valid bearer token on every non-public endpoint,
// regardless of HTTP method. The token must be HS256-signed with the
// shared secret and carry sub, role, and an unexpired exp claim.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			caller, role, err := validateToken(r.Header.Get("Authorization"), secret)
			if err != nil {
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			if !allowedRoles[role] {
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}
			ctx := context.WithValue(r.Context(), ctxCaller, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateToken(authz string, secret []byte) (string, string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", "", errors.New("missing bearer token")
	}
	tok, err := jwt.Parse(strings.TrimPrefix(authz, prefix), func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return "", "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid claims")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return "", "", errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", "", errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", "", errors.New("invalid role claim")
	}
	return sub, role, nil
}
