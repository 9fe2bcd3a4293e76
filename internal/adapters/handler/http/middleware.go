package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollingapp/internal/core/domain"
)

type contextKey string

const callerContextKey contextKey = "caller"

// AuthMiddleware decodes the access token issued by the identity service
// into a CallerIdentity. Token issuance is not handled here; this side only
// consumes already-minted HS256 tokens.
type AuthMiddleware struct {
	secret []byte
}

func NewAuthMiddleware(secret string) *AuthMiddleware {
	return &AuthMiddleware{secret: []byte(secret)}
}

// WithOptionalCaller attaches the caller identity when a valid token is
// present and lets the request through anonymously otherwise. Read endpoints
// use this so unauthenticated browsing keeps working.
func (m *AuthMiddleware) WithOptionalCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if caller := m.callerFromRequest(r); caller != nil {
			r = r.WithContext(context.WithValue(r.Context(), callerContextKey, caller))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCaller rejects requests without a valid token.
func (m *AuthMiddleware) RequireCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := m.callerFromRequest(r)
		if caller == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerContextKey, caller)))
	})
}

func (m *AuthMiddleware) callerFromRequest(r *http.Request) *domain.CallerIdentity {
	tokenStr := ""
	if cookie, err := r.Cookie("access_token"); err == nil {
		tokenStr = cookie.Value
	}
	if tokenStr == "" {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}
	if tokenStr == "" {
		return nil
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil
	}

	caller := &domain.CallerIdentity{ID: userID}
	if username, ok := claims["username"].(string); ok {
		caller.Username = username
	}
	if name, ok := claims["name"].(string); ok {
		caller.Name = name
	}
	return caller
}

// CallerFrom returns the authenticated caller for the request, or nil for
// anonymous requests.
func CallerFrom(ctx context.Context) *domain.CallerIdentity {
	caller, _ := ctx.Value(callerContextKey).(*domain.CallerIdentity)
	return caller
}
