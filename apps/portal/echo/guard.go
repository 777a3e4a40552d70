package echoportal

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/darasahq/darasa/core/session"
)

var contextSessionKey = "portalSession"

const loadingPlaceholder = `<!DOCTYPE html><html><body><p>Loading…</p></body></html>`

// landingPath is where each role belongs; roles without a portal area go back
// to the login page.
func landingPath(role string) string {
	switch role {
	case session.RoleAdmin:
		return "/admin"
	case session.RolePrincipal:
		return "/principal/dashboard"
	default:
		return "/login"
	}
}

func hasAnyRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// guard keeps unresolved, unauthenticated and wrong-role sessions out of a
// protected area. While the session is still resolving it renders a loading
// placeholder rather than either view.
func (s *server) guard(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ps, ok := s.sessionFromCookie(ctx)
			if !ok {
				return redirectToLogin(ctx)
			}
			cur := ps.ctrl.Current()
			switch cur.Status {
			case session.StatusAuthenticating:
				return ctx.HTML(http.StatusOK, loadingPlaceholder)
			case session.StatusAuthenticated, session.StatusRefreshing:
				if !hasAnyRole(cur.User.Role, roles) {
					return ctx.Redirect(http.StatusSeeOther, landingPath(cur.User.Role))
				}
				ctx.Set(contextSessionKey, ps)
				return next(ctx)
			default: // unauthenticated, expired
				return redirectToLogin(ctx)
			}
		}
	}
}

func redirectToLogin(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

func (s *server) sessionFromCookie(ctx echo.Context) (*portalSession, bool) {
	cookie, err := ctx.Cookie(s.opts.Conf.Server.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return s.registry.Get(cookie.Value)
}

// currentSession returns the guarded request's session; guard always sets it.
func currentSession(ctx echo.Context) *portalSession {
	return ctx.Get(contextSessionKey).(*portalSession)
}
