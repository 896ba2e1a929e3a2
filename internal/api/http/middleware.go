package http

import (
	"net/http"
	"strings"

	"huddleup-backend/internal/domain"
	"huddleup-backend/internal/security"
)

// AuthMiddleware validates the Bearer token and resolves the actor for
// downstream handlers. Identity issuance lives with the identity
// collaborator; only verification happens here.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeErrorStatus(w, http.StatusUnauthorized, "missing authorization header")
				return
			}
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				writeErrorStatus(w, http.StatusUnauthorized, "authorization header must be a bearer token")
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				writeErrorStatus(w, http.StatusUnauthorized, err.Error())
				return
			}

			actor := domain.Actor{ID: claims.UserID, Email: claims.Email}
			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), actor)))
		})
	}
}
