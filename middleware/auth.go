package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"voxlink_server/helpers"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type contextKey string

const (
	userIDKey   contextKey = "userId"
	usernameKey contextKey = "username"
)

const tokenTTL = 7 * 24 * time.Hour

// GenerateToken issues a signed bearer token for an authenticated user
func GenerateToken(secret []byte, userID, username string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// VerifyToken resolves a bearer token to the identity it was issued for
func VerifyToken(secret []byte, tokenString string) (userID, username string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	userID, _ = claims["sub"].(string)
	username, _ = claims["username"].(string)
	if userID == "" {
		return "", "", fmt.Errorf("token missing subject")
	}
	return userID, username, nil
}

// RequireAuth rejects requests without a valid bearer credential and puts
// the resolved identity into the request context.
func RequireAuth(secret []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				helpers.WriteJSONResponse(w, http.StatusUnauthorized, helpers.APIResponse{Success: false, Message: "Missing or invalid authorization header"})
				return
			}

			userID, username, err := VerifyToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				helpers.WriteJSONResponse(w, http.StatusUnauthorized, helpers.APIResponse{Success: false, Message: "Invalid or expired token"})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// UsernameFromContext returns the authenticated username, if any
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok
}
