package prefstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

type preferenceRecord struct {
	bun.BaseModel `bun:"table:language_preferences,alias:lp"`

	SessionKey string    `bun:"session_key,pk"`
	Language   string    `bun:"language,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

// SQLStore keeps preferences in a SQL table through bun.
type SQLStore struct {
	db  *bun.DB
	now func() time.Time
}

// NewSQLStore wraps an existing bun database. Call Init before use.
func NewSQLStore(db *bun.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// OpenSQLite opens a SQLite database, creating the table if needed.
func OpenSQLite(ctx context.Context, dsn string) (*SQLStore, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.SetMaxOpenConns(1)

	store := NewSQLStore(db)
	if err := store.Init(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Init creates the preferences table.
func (s *SQLStore) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().
		Model((*preferenceRecord)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Get returns the stored language.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	rec := new(preferenceRecord)
	err := s.db.NewSelect().
		Model(rec).
		Where("session_key = ?", key).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.Language, true, nil
}

// Set upserts lang for key.
func (s *SQLStore) Set(ctx context.Context, key, lang string) error {
	rec := &preferenceRecord{SessionKey: key, Language: lang, UpdatedAt: s.now().UTC()}
	_, err := s.db.NewInsert().
		Model(rec).
		On("CONFLICT (session_key) DO UPDATE").
		Set("language = EXCLUDED.language").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

// Close closes the database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLStore)(nil)
