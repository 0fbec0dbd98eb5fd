package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/mkanda/liveroom-services/internal/roomsvc/models"
)

type ctxKey int

const userCtxKey ctxKey = 0

// Authenticator resolves the opaque bearer token against the user
// directory and injects the caller into the request context. Requests
// without a resolvable token never reach the room engine.
func (h *Handler) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			h.writeError(w, http.StatusUnauthorized, "invalid credential")
			return
		}

		user, err := h.users.ResolveToken(r.Context(), token)
		if err != nil {
			h.writeError(w, http.StatusInternalServerError, "failed to resolve token")
			return
		}
		if user == nil {
			h.writeError(w, http.StatusUnauthorized, "invalid credential")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func callerFrom(r *http.Request) *models.User {
	user, _ := r.Context().Value(userCtxKey).(*models.User)
	return user
}
