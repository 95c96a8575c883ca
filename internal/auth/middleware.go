package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/stockwise/stockwise/internal/shared"
)

// Middleware resolves bearer tokens into the request's actor.
type Middleware struct {
	logger *slog.Logger
	tokens *TokenStore
}

// NewMiddleware constructs a Middleware.
func NewMiddleware(logger *slog.Logger, tokens *TokenStore) *Middleware {
	return &Middleware{logger: logger, tokens: tokens}
}

// Authenticate attaches the actor for a valid bearer token. Requests without
// a token pass through anonymously; route-level authorization rejects them
// where a role is required. A presented-but-invalid token is a hard 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		actor, err := m.tokens.ResolveAccess(r.Context(), token)
		if err != nil {
			if !errors.Is(err, shared.ErrUnauthorized) {
				m.logger.Error("resolve access token", slog.Any("error", err))
			}
			shared.RespondError(w, shared.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithActor(r.Context(), actor)))
	})
}

// BearerToken extracts the token from the Authorization header, empty when
// absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
