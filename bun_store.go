package guard

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

var _ Store = &BunStore{}

type storeEntry struct {
	bun.BaseModel `bun:"table:guard_store,alias:kv"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

// BunStore persists guard keys in a single key-value table managed through
// Bun. Storage errors are logged and swallowed so the Store contract holds:
// Get degrades to "" and Set/Delete degrade to no-ops when the database is
// unavailable.
type BunStore struct {
	db     *bun.DB
	logger Logger
}

// BunStoreOption customizes a BunStore.
type BunStoreOption func(*BunStore)

// WithBunStoreLogger overrides the logger used for swallowed storage errors.
func WithBunStoreLogger(logger Logger) BunStoreOption {
	return func(s *BunStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewBunStore wraps an existing Bun handle and ensures the backing table
// exists. Table creation failure is reported once; the store still satisfies
// the never-fail contract afterwards.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) *BunStore {
	s := &BunStore{
		db:     db,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if _, err := db.NewCreateTable().
		Model((*storeEntry)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		s.logger.Warn("guard store table creation failed: %v", err)
	}

	return s
}

// OpenBunStore opens a SQLite database at dsn and returns a store over it.
func OpenBunStore(dsn string, opts ...BunStoreOption) (*BunStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	return NewBunStore(db, opts...), nil
}

func (s *BunStore) Get(key string) string {
	entry := new(storeEntry)
	err := s.db.NewSelect().
		Model(entry).
		Where("?TableAlias.key = ?", key).
		Limit(1).
		Scan(context.Background())
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Debug("guard store get %q failed: %v", key, err)
		}
		return ""
	}
	return entry.Value
}

func (s *BunStore) Set(key, value string) {
	entry := &storeEntry{Key: key, Value: value}
	if _, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(context.Background()); err != nil {
		s.logger.Debug("guard store set %q failed: %v", key, err)
	}
}

func (s *BunStore) Delete(key string) {
	if _, err := s.db.NewDelete().
		Model((*storeEntry)(nil)).
		Where("key = ?", key).
		Exec(context.Background()); err != nil {
		s.logger.Debug("guard store delete %q failed: %v", key, err)
	}
}
