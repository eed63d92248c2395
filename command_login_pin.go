package guard

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type LoginWithPinMessage struct {
	Slug string `json:"slug"`
	PIN  string `json:"pin"`
}

func (e LoginWithPinMessage) Type() string { return "guard.login_with_pin" }

// LoginWithPinHandler runs a PIN login as a command. The resulting session is
// persisted through the guard's store and retrievable via Guard.GetSession.
type LoginWithPinHandler struct {
	guard  *Guard
	logger Logger
}

func NewLoginWithPinHandler(g *Guard) *LoginWithPinHandler {
	return &LoginWithPinHandler{
		guard:  g,
		logger: defLogger{},
	}
}

func (h *LoginWithPinHandler) WithLogger(logger Logger) *LoginWithPinHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *LoginWithPinHandler) Execute(ctx context.Context, event LoginWithPinMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during pin login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginWithPinHandler) execute(ctx context.Context, event LoginWithPinMessage) error {
	session, err := h.guard.LoginWithPin(ctx, event.Slug, event.PIN)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return err
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "pin login failed")
	}

	h.logger.Debug("pin login command completed for slug %q", session.Slug)
	return nil
}

type LogoutMessage struct {
	URL      string `json:"url"`
	Redirect string `json:"redirect,omitempty"`
}

func (e LogoutMessage) Type() string { return "guard.logout" }

// LogoutHandler clears the session as a command, leaving mirrors in place.
type LogoutHandler struct {
	guard *Guard
}

func NewLogoutHandler(g *Guard) *LogoutHandler {
	return &LogoutHandler{guard: g}
}

func (h *LogoutHandler) Execute(ctx context.Context, event LogoutMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during logout",
		)
	default:
		if event.Redirect != "" {
			h.guard.Logout(ParseNavigation(event.URL), event.Redirect)
		} else {
			h.guard.Logout(ParseNavigation(event.URL))
		}
		return nil
	}
}
