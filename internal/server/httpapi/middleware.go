package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kartyapp/authcore/internal/common"
	"github.com/kartyapp/authcore/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// bearerToken extracts the access token from an Authorization header of the
// form "Bearer <token>".
func bearerToken(r *http.Request) (string, error) {
	h := r.Header.Get(common.AuthorizationHeaderName)
	if h == "" {
		return "", common.ErrMissingToken
	}
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return "", common.ErrMalformedToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
	if token == "" {
		return "", common.ErrMissingToken
	}
	return token, nil
}

// requireAuth authenticates the request and stores the resolved user in the
// request context. All authentication failures map to 401; the distinct
// failure kinds stay available to the service logs.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := s.auth.Resolve(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrMalformedToken),
				errors.Is(err, common.ErrInvalidSignature),
				errors.Is(err, common.ErrTokenExpired),
				errors.Is(err, common.ErrorUserNotFound):
				writeError(w, http.StatusUnauthorized, "unauthorized")
			default:
				writeError(w, http.StatusInternalServerError, "internal error")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	}
}

// userFromContext returns the user stored by requireAuth, or nil.
func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
