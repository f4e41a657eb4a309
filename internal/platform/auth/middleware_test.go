package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testSigningKey = []byte("test-signing-key")

func signTestToken(t *testing.T, role string, ttl time.Duration) (string, string) {
	t.Helper()
	jti := uuid.New().String()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   uuid.New().String(),
			Issuer:    "scribe-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		Role:     role,
		FullName: "Dr. Rao",
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token, jti
}

func newProtectedEcho(cfg JWTConfig) *echo.Echo {
	e := echo.New()
	g := e.Group("", JWTMiddleware(cfg), RequireRole("doctor"))
	g.GET("/protected", func(c echo.Context) error {
		return c.String(http.StatusOK, UserIDFromContext(c.Request().Context()))
	})
	return e
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	e := newProtectedEcho(JWTConfig{SigningKey: testSigningKey, Issuer: "scribe-test"})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	e := newProtectedEcho(JWTConfig{SigningKey: testSigningKey, Issuer: "scribe-test"})
	token, _ := signTestToken(t, "doctor", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() == "" {
		t.Error("expected user id from context")
	}
}

func TestJWTMiddleware_ExpiredToken(t *testing.T) {
	e := newProtectedEcho(JWTConfig{SigningKey: testSigningKey, Issuer: "scribe-test"})
	token, _ := signTestToken(t, "doctor", -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestJWTMiddleware_RevokedToken(t *testing.T) {
	rev := NewTokenRevocationStore()
	defer rev.Close()

	e := newProtectedEcho(JWTConfig{SigningKey: testSigningKey, Issuer: "scribe-test", Revocations: rev})
	token, jti := signTestToken(t, "doctor", time.Hour)
	rev.Revoke(jti, time.Now().Add(time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for revoked token, got %d", rec.Code)
	}
}

func TestRequireRole_WrongRole(t *testing.T) {
	e := newProtectedEcho(JWTConfig{SigningKey: testSigningKey, Issuer: "scribe-test"})
	token, _ := signTestToken(t, "patient", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for patient role, got %d", rec.Code)
	}
}
