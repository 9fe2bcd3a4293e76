package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      userID.String(),
		"username": "ada",
		"name":     "Ada Lovelace",
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func callerEcho(out **domain.CallerIdentity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*out = CallerFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestOptionalCallerAnonymous(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)
	var caller *domain.CallerIdentity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	auth.WithOptionalCaller(callerEcho(&caller)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, caller)
}

func TestOptionalCallerWithCookie(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)
	userID := uuid.New()
	var caller *domain.CallerIdentity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: mintToken(t, testSecret, userID)})
	rec := httptest.NewRecorder()
	auth.WithOptionalCaller(callerEcho(&caller)).ServeHTTP(rec, req)

	require.NotNil(t, caller)
	assert.Equal(t, userID, caller.ID)
	assert.Equal(t, "ada", caller.Username)
	assert.Equal(t, "Ada Lovelace", caller.Name)
}

func TestOptionalCallerWithBearerToken(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)
	userID := uuid.New()
	var caller *domain.CallerIdentity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, testSecret, userID))
	rec := httptest.NewRecorder()
	auth.WithOptionalCaller(callerEcho(&caller)).ServeHTTP(rec, req)

	require.NotNil(t, caller)
	assert.Equal(t, userID, caller.ID)
}

func TestOptionalCallerIgnoresBadSignature(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)
	var caller *domain.CallerIdentity

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: mintToken(t, "wrong-secret", uuid.New())})
	rec := httptest.NewRecorder()
	auth.WithOptionalCaller(callerEcho(&caller)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, caller, "forged tokens fall back to anonymous on read routes")
}

func TestRequireCallerRejectsAnonymous(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)
	var caller *domain.CallerIdentity

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	auth.RequireCaller(callerEcho(&caller)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, caller)
}

func TestRequireCallerAcceptsValidToken(t *testing.T) {
	auth := NewAuthMiddleware(testSecret)
	userID := uuid.New()
	var caller *domain.CallerIdentity

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: mintToken(t, testSecret, userID)})
	rec := httptest.NewRecorder()
	auth.RequireCaller(callerEcho(&caller)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, caller)
	assert.Equal(t, userID, caller.ID)
}
