package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/jonahkeegan/pairwatch/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxIdentity ctxKey = "identity"

// RequireIdentity resuelve la identidad del request: usuario autenticado
// si viene un Bearer JWT válido, invitado si viene X-Session-Id. Toda
// operación del core se scopea contra exactamente una identidad.
func RequireIdentity(secret string) func(http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

				token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return secretBytes, nil
				})
				if err != nil || !token.Valid {
					http.Error(w, "invalid token", http.StatusUnauthorized)
					return
				}

				claims, ok := token.Claims.(jwt.MapClaims)
				if !ok {
					http.Error(w, "invalid token claims", http.StatusUnauthorized)
					return
				}
				sub, ok := claims["sub"].(float64)
				if !ok {
					http.Error(w, "invalid sub in token", http.StatusUnauthorized)
					return
				}

				ctx := context.WithValue(r.Context(), ctxIdentity, models.UserIdentity(int(sub)))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if sessionID := r.Header.Get("X-Session-Id"); sessionID != "" {
				ctx := context.WithValue(r.Context(), ctxIdentity, models.GuestIdentity(sessionID))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			http.Error(w, "missing identity (Bearer token or X-Session-Id)", http.StatusUnauthorized)
		})
	}
}

// IdentityFromContext saca la identidad que dejó el middleware.
func IdentityFromContext(ctx context.Context) models.Identity {
	if v := ctx.Value(ctxIdentity); v != nil {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return ""
}
