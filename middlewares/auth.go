package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/qrmenu/models"
	"github.com/ray-remotestate/qrmenu/utils"
)

// AdminCookie carries the session token for browser clients.
const AdminCookie = "admin_token"

type ContextKey string

const (
	userContextKey ContextKey = "user"
)

// AuthMiddleware accepts a bearer token or the admin cookie and stores the claims in the context.
func AuthMiddleware(secret []byte, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractToken(r)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized: missing token")
				return
			}

			claims, err := utils.ParseAccessToken(secret, tokenStr)
			if err != nil {
				logger.WithField("path", r.URL.Path).Debug("rejected admin token")
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized: invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, userContextKey, claims)
}

func GetAuthenticatedUser(r *http.Request) (*utils.Claims, error) {
	claims, ok := r.Context().Value(userContextKey).(*utils.Claims)
	if !ok {
		return nil, errors.New("no user in context")
	}
	return claims, nil
}

// AdminFromContext returns the authenticated admin's username, or "" outside the admin routes.
func AdminFromContext(ctx context.Context) string {
	claims, ok := ctx.Value(userContextKey).(*utils.Claims)
	if !ok {
		return ""
	}
	return claims.Subject
}

func extractToken(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization format")
		}
		return parts[1], nil
	}

	cookie, err := r.Cookie(AdminCookie)
	if err != nil || cookie.Value == "" {
		return "", errors.New("token missing")
	}
	return cookie.Value, nil
}

func RoleBasedMiddleware(allowedRoles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool)
	for _, role := range allowedRoles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetAuthenticatedUser(r)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if allowed[models.Role(strings.ToLower(string(claims.Role)))] {
				next.ServeHTTP(w, r)
				return
			}

			utils.WriteError(w, http.StatusForbidden, "forbidden: insufficient role")
		})
	}
}
