package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret-for-notification-service")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func protectedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/notifications/send", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func runAuthz(req *http.Request) (*httptest.ResponseRecorder, bool) {
	called := false
	handler := Authz(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, called
}

func TestAuthz(t *testing.T) {
	t.Run("TC-1: should allow valid service token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "resto-web",
			"role": "service",
			"exp":  float64(time.Now().Add(time.Minute).Unix()),
		})
		rec, called := runAuthz(protectedRequest(token))
		if !called || rec.Code != http.StatusOK {
			t.Errorf("code = %d, called = %v; want 200 and handler called", rec.Code, called)
		}
	})

	t.Run("TC-2: should reject missing token", func(t *testing.T) {
		rec, called := runAuthz(protectedRequest(""))
		if called || rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, called = %v; want 401 and handler skipped", rec.Code, called)
		}
	})

	t.Run("TC-3: should reject expired token", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "resto-web",
			"role": "service",
			"exp":  float64(time.Now().Add(-time.Minute).Unix()),
		})
		rec, _ := runAuthz(protectedRequest(token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", rec.Code)
		}
	})

	t.Run("TC-4: should reject wrong secret", func(t *testing.T) {
		token := signToken(t, []byte("some-other-secret-value-here"), jwt.MapClaims{
			"sub":  "resto-web",
			"role": "service",
			"exp":  float64(time.Now().Add(time.Minute).Unix()),
		})
		rec, _ := runAuthz(protectedRequest(token))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401", rec.Code)
		}
	})

	t.Run("TC-5: should reject unknown role", func(t *testing.T) {
		token := signToken(t, testSecret, jwt.MapClaims{
			"sub":  "resto-web",
			"role": "viewer",
			"exp":  float64(time.Now().Add(time.Minute).Unix()),
		})
		rec, _ := runAuthz(protectedRequest(token))
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %d, want 403", rec.Code)
		}
	})

	t.Run("TC-6: should pass public endpoints through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec, called := runAuthz(req)
		if !called || rec.Code != http.StatusOK {
			t.Errorf("code = %d, called = %v; want 200 without token", rec.Code, called)
		}
	})
}

func TestIsPublicEndpoint(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/ready", true},
		{"/metrics", true},
		{"/live", true},
		{"/api/notifications/send", false},
		{"/healthcheck", false},
	}
	for _, tt := range tests {
		if got := IsPublicEndpoint(tt.path); got != tt.want {
			t.Errorf("IsPublicEndpoint(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
