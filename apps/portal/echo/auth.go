package echoportal

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/darasahq/darasa/core"
)

const loginPage = `<!DOCTYPE html><html><body>
<form method="post" action="/login">
<input name="email" type="email" placeholder="Email">
<input name="password" type="password" placeholder="Password">
<button type="submit">Sign in</button>
</form>
</body></html>`

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (data *LoginRequest) Validate(validate *validator.Validate) error {
	data.Email = core.CleanString(data.Email, true /* lower */)
	return validate.Struct(data)
}

func (s *server) home(ctx echo.Context) error {
	if ps, ok := s.sessionFromCookie(ctx); ok {
		if cur := ps.ctrl.Current(); cur.Authenticated() {
			return ctx.Redirect(http.StatusSeeOther, landingPath(cur.User.Role))
		}
	}
	return redirectToLogin(ctx)
}

func (s *server) loginPage(ctx echo.Context) error {
	return ctx.HTML(http.StatusOK, loginPage)
}

func (s *server) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(s.validate); err != nil {
		return err
	}

	id, ps, err := s.registry.Login(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return err
	}

	s.setSessionCookie(ctx, id, s.opts.Conf.Server.SessionMaxAge)
	return ctx.Redirect(http.StatusSeeOther, landingPath(ps.ctrl.Current().User.Role))
}

// logout drops the portal session. Calling it with no (or a stale) cookie is
// fine; it lands on the login page either way.
func (s *server) logout(ctx echo.Context) error {
	if cookie, err := ctx.Cookie(s.opts.Conf.Server.CookieName); err == nil && cookie.Value != "" {
		s.registry.Remove(cookie.Value)
	}
	s.setSessionCookie(ctx, "", -time.Second) // expire it
	return redirectToLogin(ctx)
}

func (s *server) setSessionCookie(ctx echo.Context, id string, maxAge time.Duration) {
	ctx.SetCookie(&http.Cookie{
		Name:     s.opts.Conf.Server.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
