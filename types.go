package guard

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Store is a fallible key-value facility wrapped into a contract that never
// fails: Get returns "" on a miss or on any storage error, Set and Delete
// degrade to no-ops. Implementations isolate the guard from environment-level
// storage failures (unavailable backend, quota, disabled storage).
type Store interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// Verifier checks a slug and PIN against the authoritative remote service.
// A transport or remote-side failure is returned as an error; a reachable
// verifier that denies access returns a result without a truthy OK flag.
// A nil result with a nil error means the remote payload was unusable.
type Verifier interface {
	VerifyAccessPin(ctx context.Context, slug, pin string) (*VerifyResult, error)
}

// VerifyResult is the payload returned by the remote verifier.
type VerifyResult struct {
	OK      bool   `json:"ok"`
	OwnerID string `json:"owner_id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Title   string `json:"title,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Navigator performs replacement navigation for redirect decisions. The core
// never navigates on its own; the default navigator is a no-op so callers that
// only inspect BootResult states pay nothing.
type Navigator interface {
	Replace(url string)
}

type noopNavigator struct{}

func (noopNavigator) Replace(string) {}

// Keys names the storage slots used by the guard: the session record blob and
// the denormalized mirrors other modules read without parsing the session.
type Keys struct {
	Session string
	Slug    string
	OwnerID string
	Title   string
	Phone   string
}

// DefaultKeys returns the conventional storage key set.
func DefaultKeys() Keys {
	return Keys{
		Session: "TENANT_GUARD_SESSION_V1",
		Slug:    "TENANT_SLUG",
		OwnerID: "TENANT_OWNER_ID",
		Title:   "TENANT_TITLE",
		Phone:   "TENANT_PHONE",
	}
}

// SessionTTL is the fixed validity window for session records. Writes always
// stamp a fresh window, including slug reconciliation writes during Boot.
const SessionTTL = 90 * 24 * time.Hour

// SlugParam is the navigation query parameter carrying the active slug.
const SlugParam = "slug"

// DefaultLoginURL is where unauthenticated boots redirect unless configured.
const DefaultLoginURL = "/login"

// DefaultModule is stamped into session records unless WithModule overrides it.
const DefaultModule = "tenant_guard"

type defLogger struct{}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GUARD "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GUARD "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GUARD "+newline(format), args...)
}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GUARD "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
