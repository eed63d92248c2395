// Package guard provides a per-tenant access guard for multi-tenant client
// applications: slug resolution, PIN-based login against a remote verifier,
// and a boot protocol every protected entry point runs before rendering.
//
// Slug resolution:
//   - The active tenant slug is resolved with a strict precedence: the slug
//     carried by the current navigation context (the `slug` query parameter),
//     then the slug embedded in the valid session record, then the persisted
//     mirror. The resolver never mutates state; SyncSlugFromURL persists the
//     navigation slug to the mirror as a side-effect helper.
//
// Sessions:
//   - SessionStore owns the session record lifecycle. Records carry a fixed
//     90 day TTL and fail closed: a record missing owner_id, missing an
//     expiry, or past its expiry is treated as absent. Every write refreshes
//     the TTL window, including slug-only reconciliation writes performed by
//     Boot.
//
// Boot protocol:
//   - Boot returns an explicit BootResult state (Ready or Redirecting) instead
//     of performing navigation side effects, so the core stays independently
//     testable. Adapters (see the go-router middleware and the Navigator
//     interface) interpret the Redirecting state and perform the actual
//     replacement navigation.
//
// Storage:
//   - All persistence runs through the Store interface whose operations never
//     fail: adapters swallow environment-level storage errors and degrade to
//     no-ops and empty reads. The rest of the package treats ambiguous state
//     as "not authenticated" rather than crashing.
package guard
