package chi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	domuser "github.com/kailas-cloud/pfin/internal/domain/user"
	"github.com/kailas-cloud/pfin/internal/logger"
)

// DefaultCookieName names the session cookie when none is configured.
const DefaultCookieName = "pfin_session"

// SessionStore holds logged-in users by token.
type SessionStore interface {
	Create(u domuser.User) string
	Get(token string) (domuser.User, bool)
	Delete(token string)
	TTL() time.Duration
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

func (c CookieConfig) name() string {
	if c.Name == "" {
		return DefaultCookieName
	}
	return c.Name
}

type userCtxKey struct{}

// ContextWithUser stores the session user in ctx.
func ContextWithUser(ctx context.Context, u domuser.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext returns the session user. Requests without a session get
// an anonymous zero user and ok=false.
func UserFromContext(ctx context.Context) (domuser.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(domuser.User)
	if !ok || !u.IsAuthenticated() {
		return domuser.User{}, false
	}
	return u, true
}

// SessionMiddleware resolves the session cookie to a user. Unknown or
// expired tokens leave the request anonymous.
func SessionMiddleware(sessions SessionStore, cookie CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookie.name())
			if err != nil || c.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			u, ok := sessions.Get(c.Value)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := logger.With(ContextWithUser(r.Context(), u), zap.String("user_id", u.MongoID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects anonymous requests with 401 and users below the
// required tier with 403.
func RequireRole(required domuser.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := UserFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "login required")
				return
			}
			if !u.IsActive() || !u.Role.Allows(required) {
				writeError(w, http.StatusForbidden, ErrorCodeForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setSessionCookie(w http.ResponseWriter, cfg CookieConfig, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RoleLabel names the session tier of r for metrics, "" when anonymous.
func RoleLabel(r *http.Request) string {
	u, ok := UserFromContext(r.Context())
	if !ok {
		return ""
	}
	return string(u.Role)
}
