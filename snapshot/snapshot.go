// Package snapshot keeps serialized worlds in a SQL database.
//
// A snapshot is the encoded form produced by registry.Encode, stored as
// canonical JSON under a name. Saving the same name again adds a newer
// snapshot; Load returns the latest one.
package snapshot

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/qustavo/dotsql"

	docskema "github.com/reoring/docskema"
)

//go:embed queries/*.sql
var queriesFS embed.FS

// ErrNotFound is returned when no snapshot carries the requested name.
var ErrNotFound = errors.New("snapshot: not found")

// Info describes a stored snapshot without its body.
type Info struct {
	ID        string    `db:"snapshot_id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Entities  int       `db:"entities" json:"entities"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type row struct {
	Info
	Body string `db:"body"`
}

// Store persists world snapshots.
type Store struct {
	db  *sqlx.DB
	dot *dotsql.DotSql
	now func() time.Time
}

// Open connects to dbURL and creates the snapshot table when missing.
// Supported URLs: sqlite://relative/file.db, sqlite:///absolute/file.db.
func Open(dbURL string) (*Store, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("snapshot: invalid database URL: %w", err)
	}
	if u.Scheme != "sqlite" {
		return nil, fmt.Errorf("snapshot: unsupported database scheme: %s (expected sqlite)", u.Scheme)
	}
	source := u.Path
	if u.Host != "" {
		source = u.Host + u.Path
	}
	if source == "" {
		return nil, fmt.Errorf("snapshot: database path is required")
	}

	db, err := sqlx.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("snapshot: open database: %w", err)
	}
	// A single connection keeps sqlite writes serialized.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: ping database: %w", err)
	}

	raw, err := queriesFS.ReadFile("queries/snapshots.sql")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: read queries: %w", err)
	}
	dot, err := dotsql.LoadFromString(string(raw))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("snapshot: parse queries: %w", err)
	}

	s := &Store{db: db, dot: dot, now: func() time.Time { return time.Now().UTC() }}
	for _, name := range []string{"create-snapshots-table", "create-snapshots-name-index"} {
		if _, err := s.exec(context.Background(), name); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores world, an encoded world ({entityId: {typeName: encoded}}),
// under name.
func (s *Store) Save(ctx context.Context, name string, world map[string]any) (Info, error) {
	if name == "" {
		return Info{}, fmt.Errorf("snapshot: name is required")
	}
	body, err := docskema.Canonical(world)
	if err != nil {
		return Info{}, fmt.Errorf("snapshot: encode world: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	info := Info{ID: id.String(), Name: name, Entities: len(world), CreatedAt: s.now()}
	if _, err := s.exec(ctx, "insert-snapshot", info.ID, info.Name, info.Entities, string(body), info.CreatedAt); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Load returns the latest snapshot saved under name.
func (s *Store) Load(ctx context.Context, name string) (Info, map[string]any, error) {
	query, err := s.query("get-latest-snapshot")
	if err != nil {
		return Info{}, nil, err
	}
	var r row
	if err := s.db.GetContext(ctx, &r, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Info{}, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Info{}, nil, fmt.Errorf("snapshot: load %s: %w", name, err)
	}
	var world map[string]any
	if err := json.Unmarshal([]byte(r.Body), &world); err != nil {
		return Info{}, nil, fmt.Errorf("snapshot: decode %s: %w", r.ID, err)
	}
	return r.Info, world, nil
}

// List returns every stored snapshot ordered by name, then age.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	query, err := s.query("list-snapshots")
	if err != nil {
		return nil, err
	}
	var out []Info
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	return out, nil
}

// Delete removes every snapshot saved under name and reports how many went.
func (s *Store) Delete(ctx context.Context, name string) (int64, error) {
	res, err := s.exec(ctx, "delete-snapshots", name)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) query(name string) (string, error) {
	q, err := s.dot.Raw(name)
	if err != nil {
		return "", fmt.Errorf("snapshot: query not found: %s", name)
	}
	return s.db.Rebind(q), nil
}

func (s *Store) exec(ctx context.Context, name string, args ...any) (sql.Result, error) {
	q, err := s.query(name)
	if err != nil {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %s: %w", name, err)
	}
	return res, nil
}
