package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenValidity is how long an issued bearer token stays valid
const TokenValidity = 6 * time.Hour

type contextKey string

const identityKey contextKey = "identity"

// Identity is the decoded token subject attached to the request context
type Identity struct {
	UserID int
	Role   string
}

// Auth holds the shared signing secret for the bearer middleware
type Auth struct {
	Secret []byte
}

// Middleware validates the bearer token on a route and attaches the decoded
// identity to the request context
func (a Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		requestID := uuid.New().String()

		identity, err := a.authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"requestId", requestID,
				"url", r.URL,
				"error", err,
			)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error": "unauthorized"}`))
			return
		}
		zap.S().Debugw("request authenticated",
			"requestId", requestID,
			"userId", identity.UserID,
			"role", identity.Role,
			"method", r.Method,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a Auth) authenticate(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Identity{}, fmt.Errorf("missing authorization header")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return Identity{}, fmt.Errorf("authorization header is not a bearer token")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.Secret, nil
	})
	if err != nil {
		return Identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("unexpected claims type")
	}
	userID, ok := claims["userId"].(float64)
	if !ok {
		return Identity{}, fmt.Errorf("token has no userId claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return Identity{}, fmt.Errorf("token has no role claim")
	}

	return Identity{UserID: int(userID), Role: role}, nil
}

// NewToken signs a bearer token carrying the user id and role
func NewToken(secret []byte, userID int, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"iat":    now.Unix(),
		"exp":    now.Add(TokenValidity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// IdentityFromContext returns the identity the middleware attached to the
// request context
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

// ContextWithIdentity attaches an identity, exported for testing handlers
// without running the middleware
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}
