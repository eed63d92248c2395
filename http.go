package guard

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// BootContextKey is the Locals key RequireSession stores the BootResult under.
const BootContextKey = "guard:boot"

// RouteGuard adapts the boot protocol to go-router handlers: it runs Boot on
// every protected request, performs the replacement redirect for the
// Redirecting state, and exposes login/logout endpoints.
type RouteGuard struct {
	guard        *Guard
	SuccessURL   string
	Logger       Logger
	ErrorHandler func(c router.Context, err error) error
}

// RouteGuardOption customizes a RouteGuard.
type RouteGuardOption func(*RouteGuard)

// WithRouteSuccessURL sets where a successful login lands (default "/").
func WithRouteSuccessURL(target string) RouteGuardOption {
	return func(a *RouteGuard) {
		if target != "" {
			a.SuccessURL = target
		}
	}
}

// WithRouteLogger overrides the route guard logger.
func WithRouteLogger(logger Logger) RouteGuardOption {
	return func(a *RouteGuard) {
		if logger != nil {
			a.Logger = logger
		}
	}
}

// NewRouteGuard creates the HTTP adapter for a Guard.
func NewRouteGuard(g *Guard, opts ...RouteGuardOption) *RouteGuard {
	a := &RouteGuard{
		guard:      g,
		SuccessURL: "/",
		Logger:     defLogger{},
	}

	a.ErrorHandler = a.defaultErrHandler

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a
}

// RequireSession is the route middleware protected entry points mount. It
// boots the guard against the request URL; without a valid session the
// request is redirected to the login target and the handler never runs.
func (a *RouteGuard) RequireSession() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			res := a.guard.Boot(navigationFromRouter(c))
			if !res.OK() {
				a.Logger.Info("no valid session, redirecting, path=%s", c.OriginalURL())
				return c.Redirect(res.RedirectTo, redirectStatus(c))
			}

			c.Locals(BootContextKey, res)
			return hf(c)
		}
	}
}

// BootFromRouter retrieves the BootResult RequireSession stored for the
// request.
func BootFromRouter(c router.Context) (BootResult, bool) {
	raw := c.Locals(BootContextKey)
	if raw == nil {
		return BootResult{}, false
	}
	res, ok := raw.(BootResult)
	return res, ok
}

// LoginPost handles the login form submission.
func (a *RouteGuard) LoginPost(c router.Context) error {
	payload := new(LoginRequest)
	if err := c.Bind(payload); err != nil {
		a.Logger.Error("login payload bind error: %v", err)
		return a.ErrorHandler(c, err)
	}

	session, err := a.guard.LoginWithPin(c.Context(), payload.Slug, payload.PIN)
	if err != nil {
		a.Logger.Info("login rejected for slug %q: %v", payload.Slug, err)
		return a.ErrorHandler(c, err)
	}

	target := attachSlug(a.SuccessURL, session.Slug)
	return c.Redirect(target, fiber.StatusSeeOther)
}

// LogoutPost clears the session and redirects to the login target. Mirrors
// stay in place.
func (a *RouteGuard) LogoutPost(c router.Context) error {
	res := a.guard.Logout(navigationFromRouter(c))
	return c.Redirect(res.RedirectTo, fiber.StatusSeeOther)
}

// defaultErrHandler bounces failures back to the login target with the error
// message as a query parameter, so login pages can surface it.
func (a *RouteGuard) defaultErrHandler(c router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "an unexpected error occurred")
	}

	target := a.guard.WithSlug(navigationFromRouter(c), a.guard.loginURL)

	u, parseErr := url.Parse(target)
	if parseErr == nil {
		q := u.Query()
		q.Set("error", richErr.Message)
		u.RawQuery = q.Encode()
		target = u.String()
	}

	return c.Redirect(target, redirectStatus(c))
}

func navigationFromRouter(c router.Context) Navigation {
	return ParseNavigation(c.OriginalURL())
}

func redirectStatus(c router.Context) int {
	if c.Method() == string(router.GET) {
		return fiber.StatusFound
	}
	return fiber.StatusSeeOther
}
