package guard

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionRecord is the persisted proof of a successful authentication. It is
// stored as a single JSON blob under the session key; the mirror keys carry
// denormalized copies of OwnerID, Slug, Title, and Phone for consumers that
// do not parse the record.
type SessionRecord struct {
	OK        bool      `json:"ok"`
	Module    string    `json:"module"`
	OwnerID   string    `json:"owner_id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TTL reports the validity window the record was written with.
func (s SessionRecord) TTL() time.Duration {
	return s.ExpiresAt.Sub(s.CreatedAt)
}

func (s SessionRecord) String() string {
	return fmt.Sprintf(
		"owner=%s slug=%s module=%s expires=%s",
		s.OwnerID,
		s.Slug,
		s.Module,
		s.ExpiresAt.Format(time.RFC1123),
	)
}

// SessionStore owns the session record lifecycle: it is the only component
// that creates, reads, validates, and clears the stored record.
type SessionStore struct {
	store  Store
	key    string
	ttl    time.Duration
	now    func() time.Time
	logger Logger
}

// SessionStoreOption customizes a SessionStore.
type SessionStoreOption func(*SessionStore)

// WithSessionKey overrides the storage key holding the session blob.
func WithSessionKey(key string) SessionStoreOption {
	return func(s *SessionStore) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSessionTTL overrides the validity window stamped on writes.
func WithSessionTTL(ttl time.Duration) SessionStoreOption {
	return func(s *SessionStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithSessionClock injects a custom clock (useful for tests).
func WithSessionClock(clock func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithSessionLogger overrides the logger used for fail-closed reads.
func WithSessionLogger(logger Logger) SessionStoreOption {
	return func(s *SessionStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSessionStore creates a session store over the given Store.
func NewSessionStore(store Store, opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		store:  store,
		key:    DefaultKeys().Session,
		ttl:    SessionTTL,
		now:    time.Now,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Read loads the stored record, failing closed: a missing blob, a parse
// error, a record without an owner, a record without an expiry, or an expiry
// in the past all yield nil. Expired records are deleted lazily here rather
// than swept proactively.
func (s *SessionStore) Read() *SessionRecord {
	raw := s.store.Get(s.key)
	if raw == "" {
		return nil
	}

	record := new(SessionRecord)
	if err := json.Unmarshal([]byte(raw), record); err != nil {
		s.logger.Debug("session parse failed, treating as absent: %v", err)
		return nil
	}

	if record.OwnerID == "" || record.ExpiresAt.IsZero() {
		return nil
	}

	if s.now().After(record.ExpiresAt) {
		s.store.Delete(s.key)
		return nil
	}

	return record
}

// Write stamps a fresh CreatedAt/ExpiresAt pair on the record and persists
// it. Every write refreshes the TTL window, including the slug reconciliation
// writes Boot performs.
func (s *SessionStore) Write(record SessionRecord) *SessionRecord {
	now := s.now()
	record.CreatedAt = now
	record.ExpiresAt = now.Add(s.ttl)

	raw, err := json.Marshal(record)
	if err != nil {
		s.logger.Warn("session serialize failed: %v", err)
		return &record
	}

	s.store.Set(s.key, string(raw))
	return &record
}

// Clear deletes the stored record. Mirrors are left untouched.
func (s *SessionStore) Clear() {
	s.store.Delete(s.key)
}
