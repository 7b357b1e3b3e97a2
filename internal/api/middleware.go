package api

import (
	"context"
	"net/http"

	"github.com/soil-network/platform-api/internal/domain"
	"github.com/soil-network/platform-api/internal/httputil"
	"github.com/soil-network/platform-api/internal/logging"
	"github.com/soil-network/platform-api/internal/router"
)

type sessionUserKey struct{}

// withSession resolves the bearer token and rejects the request when it
// is absent or unknown. A missing header and an unresolvable token
// produce distinct messages so clients can tell "log in" from
// "log in again".
func (a *API) withSession(next router.Handler) router.Handler {
	return func(w http.ResponseWriter, r *http.Request, p router.Params) {
		token := httputil.BearerToken(r)
		if token == "" {
			httputil.Unauthorized(w, "Unauthorized")
			return
		}
		user, err := a.sessions.Resolve(r.Context(), token)
		if err != nil {
			httputil.Unauthorized(w, "Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), sessionUserKey{}, user)
		ctx = context.WithValue(ctx, logging.UserIDKey, user.ID)
		next(w, r.WithContext(ctx), p)
	}
}

// withAdmin is withSession plus an isAdmin gate.
func (a *API) withAdmin(next router.Handler) router.Handler {
	return a.withSession(func(w http.ResponseWriter, r *http.Request, p router.Params) {
		user, ok := sessionUser(r.Context())
		if !ok || !user.IsAdmin {
			httputil.Forbidden(w, "Admin access required")
			return
		}
		next(w, r, p)
	})
}

func sessionUser(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(sessionUserKey{}).(domain.User)
	return user, ok
}
