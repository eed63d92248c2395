package guard

import (
	"time"
)

// BootState is the protocol state a protected entry point lands in after Boot.
type BootState string

const (
	// StateBooting is the initial state; Boot never returns it.
	StateBooting BootState = "booting"
	// StateRedirecting means no valid session exists and navigation must
	// leave the current context. Terminal.
	StateRedirecting BootState = "redirecting"
	// StateReady means a valid session exists and the entry point may render.
	StateReady BootState = "ready"
)

// BootResult is the outcome of the boot protocol. Redirecting results carry
// the replacement target; Ready results carry the session and the
// authoritative slug.
type BootResult struct {
	State      BootState
	Session    *SessionRecord
	Slug       string
	RedirectTo string
}

// OK reports whether the entry point may proceed.
func (r BootResult) OK() bool {
	return r.State == StateReady
}

// Guard enforces that protected entry points are unreachable without a valid
// session and keeps the active tenant slug consistent across navigation, the
// stored session, and the persisted mirrors.
type Guard struct {
	verifier  Verifier
	store     Store
	sessions  *SessionStore
	navigator Navigator
	logger    Logger
	keys      Keys
	module    string
	loginURL  string
	ttl       time.Duration
	now       func() time.Time
}

// Option customizes a Guard.
type Option func(*Guard)

// WithStore overrides the persistent store (default: in-memory).
func WithStore(store Store) Option {
	return func(g *Guard) {
		if store != nil {
			g.store = store
		}
	}
}

// WithNavigator sets the navigator that performs replacement redirects.
func WithNavigator(nav Navigator) Option {
	return func(g *Guard) {
		if nav != nil {
			g.navigator = nav
		}
	}
}

// WithLogger overrides the guard logger.
func WithLogger(logger Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithKeys overrides the storage key set.
func WithKeys(keys Keys) Option {
	return func(g *Guard) {
		def := DefaultKeys()
		if keys.Session == "" {
			keys.Session = def.Session
		}
		if keys.Slug == "" {
			keys.Slug = def.Slug
		}
		if keys.OwnerID == "" {
			keys.OwnerID = def.OwnerID
		}
		if keys.Title == "" {
			keys.Title = def.Title
		}
		if keys.Phone == "" {
			keys.Phone = def.Phone
		}
		g.keys = keys
	}
}

// WithModule sets the module constant stamped into session records.
func WithModule(module string) Option {
	return func(g *Guard) {
		if module != "" {
			g.module = module
		}
	}
}

// WithLoginURL sets the default redirect target for unauthenticated boots.
func WithLoginURL(loginURL string) Option {
	return func(g *Guard) {
		if loginURL != "" {
			g.loginURL = loginURL
		}
	}
}

// WithTTL overrides the session validity window.
func WithTTL(ttl time.Duration) Option {
	return func(g *Guard) {
		if ttl > 0 {
			g.ttl = ttl
		}
	}
}

// WithClock injects a custom clock (useful for tests).
func WithClock(clock func() time.Time) Option {
	return func(g *Guard) {
		if clock != nil {
			g.now = clock
		}
	}
}

// New creates a Guard around the given verifier.
func New(verifier Verifier, opts ...Option) *Guard {
	g := &Guard{
		verifier:  verifier,
		store:     NewMemoryStore(),
		navigator: noopNavigator{},
		logger:    defLogger{},
		keys:      DefaultKeys(),
		module:    DefaultModule,
		loginURL:  DefaultLoginURL,
		ttl:       SessionTTL,
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	g.sessions = NewSessionStore(g.store,
		WithSessionKey(g.keys.Session),
		WithSessionTTL(g.ttl),
		WithSessionClock(g.now),
		WithSessionLogger(g.logger),
	)

	return g
}

// Sessions exposes the session store owning the record lifecycle.
func (g *Guard) Sessions() *SessionStore {
	return g.sessions
}

// GetSession returns the current valid session record, or nil.
func (g *Guard) GetSession() *SessionRecord {
	return g.sessions.Read()
}

// ResolveActiveSlug determines the authoritative tenant slug. Precedence,
// first non-empty canonical value wins: navigation context, valid session,
// persisted mirror. Returns "" when no tenant resolves. Read-only.
func (g *Guard) ResolveActiveSlug(nav Navigation) string {
	if s := NormalizeSlug(nav.QuerySlug()); s != "" {
		return s
	}

	if session := g.sessions.Read(); session != nil {
		if s := NormalizeSlug(session.Slug); s != "" {
			return s
		}
	}

	return NormalizeSlug(g.store.Get(g.keys.Slug))
}

// GetSlug is an alias for ResolveActiveSlug.
func (g *Guard) GetSlug(nav Navigation) string {
	return g.ResolveActiveSlug(nav)
}

// SyncSlugFromURL persists the navigation-context slug to the mirror when it
// is present and differs from the stored value. The session is never touched.
// Returns the navigation slug, or "" when the context carries none.
func (g *Guard) SyncSlugFromURL(nav Navigation) string {
	s := NormalizeSlug(nav.QuerySlug())
	if s == "" {
		return ""
	}

	if current := NormalizeSlug(g.store.Get(g.keys.Slug)); current != s {
		g.store.Set(g.keys.Slug, s)
	}

	return s
}

// WithSlug attaches the active slug to url as a query parameter, preserving
// existing parameters. When no slug resolves the url is returned unchanged.
func (g *Guard) WithSlug(nav Navigation, url string) string {
	return attachSlug(url, g.ResolveActiveSlug(nav))
}

// Go performs a guarded redirect: replacement navigation to WithSlug(url).
// Returns the final target.
func (g *Guard) Go(nav Navigation, url string) string {
	target := g.WithSlug(nav, url)
	g.navigator.Replace(target)
	return target
}

// Boot runs the protocol every protected entry point must complete before
// rendering: synchronize the slug from the navigation context, require a
// valid session, reconcile slug drift, and hand back a ready context.
//
// Slug synchronization always completes before session validity is
// evaluated, and validity is always evaluated before any redirect decision.
// An optional redirect argument overrides the configured login target.
func (g *Guard) Boot(nav Navigation, redirect ...string) BootResult {
	g.SyncSlugFromURL(nav)

	target := g.loginURL
	if len(redirect) > 0 && redirect[0] != "" {
		target = redirect[0]
	}

	session := g.sessions.Read()
	if session == nil {
		return g.redirectResult(nav, target)
	}

	urlSlug := NormalizeSlug(nav.QuerySlug())
	sessionSlug := NormalizeSlug(session.Slug)

	finalSlug := urlSlug
	if finalSlug == "" {
		finalSlug = sessionSlug
	}
	if finalSlug == "" {
		finalSlug = NormalizeSlug(g.store.Get(g.keys.Slug))
	}

	if finalSlug != "" && finalSlug != sessionSlug {
		session.Slug = finalSlug
		session = g.sessions.Write(*session)
		g.store.Set(g.keys.Slug, finalSlug)
		g.logger.Debug("session slug reconciled to %q", finalSlug)
	}

	return BootResult{
		State:   StateReady,
		Session: session,
		Slug:    finalSlug,
	}
}

// Logout clears the session record and redirects to the login target. The
// persisted mirrors are intentionally left in place so sibling modules keep
// their cheap access to owner, slug, title, and phone.
func (g *Guard) Logout(nav Navigation, redirect ...string) BootResult {
	g.sessions.Clear()

	target := g.loginURL
	if len(redirect) > 0 && redirect[0] != "" {
		target = redirect[0]
	}

	return g.redirectResult(nav, target)
}

func (g *Guard) redirectResult(nav Navigation, target string) BootResult {
	to := g.WithSlug(nav, target)
	g.navigator.Replace(to)
	return BootResult{
		State:      StateRedirecting,
		RedirectTo: to,
	}
}
