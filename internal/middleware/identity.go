package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"chatmart/internal/identity"
	"chatmart/internal/model"

	"github.com/rs/zerolog"
)

type profileKey struct{}

// BearerIdentity resolves the caller from an "Authorization: Bearer" token
// through the identity provider. A missing bearer token is rejected with 401
// before any upstream call; a token the provider rejects gets 403.
func BearerIdentity(provider identity.Provider, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeJSONError(w, http.StatusUnauthorized, "unauthorized: no token provided")
				return
			}

			profile, err := provider.Profile(r.Context(), token)
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("bearer token rejected")
				writeJSONError(w, http.StatusForbidden, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
		})
	}
}

// WithProfile stores the authenticated caller's profile in ctx.
func WithProfile(ctx context.Context, profile *model.Profile) context.Context {
	return context.WithValue(ctx, profileKey{}, profile)
}

// ProfileFromContext returns the profile stored by BearerIdentity.
func ProfileFromContext(ctx context.Context) (*model.Profile, bool) {
	profile, ok := ctx.Value(profileKey{}).(*model.Profile)
	return profile, ok && profile != nil
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: message})
}
