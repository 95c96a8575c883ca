package shared

import (
	"log/slog"
	"net/http"
)

// AuthzMiddleware gates HTTP handlers against the permission table.
type AuthzMiddleware struct {
	Logger *slog.Logger
}

// Require ensures the request carries an actor whose role may perform op on
// resource. Missing actor yields 401, a denied role 403.
func (m AuthzMiddleware) Require(resource Resource, op Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := ActorFromContext(r.Context())
			if actor == nil {
				RespondError(w, ErrUnauthorized)
				return
			}
			if !Authorize(actor, resource, op) {
				if m.Logger != nil {
					m.Logger.Warn("authorization denied",
						slog.Int64("user_id", actor.UserID),
						slog.String("role", string(actor.Role)),
						slog.String("resource", string(resource)),
						slog.String("operation", string(op)))
				}
				RespondError(w, ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
