package middleware

import (
	"context"
	"net/http"

	"filevault-backend/internal/models"
	"filevault-backend/internal/services"
	"filevault-backend/utils/response"
)

type contextKey string

const UserContextKey contextKey = "user"

const TokenHeader = "X-Token"

type AuthMiddleware struct {
	auth *services.AuthService
}

func NewAuthMiddleware(auth *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireToken resolves the X-Token header to a live session and loads the
// user behind it into the request context. Anything short of that is a 401.
func (m *AuthMiddleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := m.auth.ResolveSession(r.Context(), token)
		if err != nil || userID.IsZero() {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := m.auth.GetUserByID(r.Context(), userID)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
