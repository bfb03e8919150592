package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure Go driver

	"tableflip.dev/finder/pkg/folder"
)

// SQLite keeps folders and favorites in a single database file.
type SQLite struct {
	conn *sql.DB
	path string
}

var _ Backend = (*SQLite)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS folders (
	id         TEXT PRIMARY KEY,
	parent_id  TEXT NOT NULL,
	name       TEXT NOT NULL,
	x          REAL NOT NULL DEFAULT 0,
	y          REAL NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS folders_parent ON folders (parent_id, created_at);
CREATE TABLE IF NOT EXISTS favorites (
	position INTEGER PRIMARY KEY,
	id       TEXT NOT NULL,
	name     TEXT NOT NULL
);
`

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if dbPath == "" {
		return nil, errors.New("store: database path unknown")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, unavailable("open", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, unavailable("open", err)
	}
	// One writer at a time keeps busy errors away from a single process.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, unavailable("pragma", err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, unavailable("schema", err)
	}
	return &SQLite{conn: db, path: dbPath}, nil
}

func (s *SQLite) Get(ctx context.Context, id string) (*folder.Node, error) {
	row := s.conn.QueryRowContext(ctx,
		"SELECT id, parent_id, name, x, y, created_at FROM folders WHERE id = ?", id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, unavailable("get "+id, err)
	}
	return n, nil
}

func (s *SQLite) Put(ctx context.Context, n *folder.Node) error {
	if n == nil || !validID(n.ID) {
		return errInvalidRecord
	}
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO folders (id, parent_id, name, x, y, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET parent_id = excluded.parent_id, name = excluded.name,
			x = excluded.x, y = excluded.y, created_at = excluded.created_at`,
		n.ID, normalizeParent(n.ParentID), n.Name, n.Position.X, n.Position.Y, n.CreatedAt.UnixNano())
	if err != nil {
		return unavailable("put "+n.ID, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, id string) error {
	res, err := s.conn.ExecContext(ctx, "DELETE FROM folders WHERE id = ?", id)
	if err != nil {
		return unavailable("delete "+id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotExist
	}
	return nil
}

func (s *SQLite) ListChildren(ctx context.Context, parentID string) ([]*folder.Node, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, parent_id, name, x, y, created_at FROM folders
		WHERE parent_id = ? ORDER BY created_at ASC, id ASC`, normalizeParent(parentID))
	if err != nil {
		return nil, unavailable("list", err)
	}
	defer rows.Close()

	nodes := make([]*folder.Node, 0)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, unavailable("scan", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list", err)
	}
	folder.Sort(nodes)
	return nodes, nil
}

func (s *SQLite) ClearAll(ctx context.Context) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("wipe", err)
	}
	for _, stmt := range []string{"DELETE FROM folders", "DELETE FROM favorites"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return unavailable("wipe", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("wipe", err)
	}
	logger.WithField("path", s.path).Info("store wiped")
	return nil
}

func (s *SQLite) LoadFavorites(ctx context.Context) ([]folder.Favorite, error) {
	rows, err := s.conn.QueryContext(ctx, "SELECT id, name FROM favorites ORDER BY position ASC")
	if err != nil {
		return nil, unavailable("favorites", err)
	}
	defer rows.Close()

	favs := make([]folder.Favorite, 0)
	for rows.Next() {
		var f folder.Favorite
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, unavailable("favorites", err)
		}
		favs = append(favs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("favorites", err)
	}
	return favs, nil
}

func (s *SQLite) SaveFavorites(ctx context.Context, favs []folder.Favorite) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("save favorites", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM favorites"); err != nil {
		_ = tx.Rollback()
		return unavailable("save favorites", err)
	}
	for i, f := range favs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO favorites (position, id, name) VALUES (?, ?, ?)", i, f.ID, f.Name); err != nil {
			_ = tx.Rollback()
			return unavailable("save favorites", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("save favorites", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.conn.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*folder.Node, error) {
	var (
		n       folder.Node
		created int64
	)
	if err := row.Scan(&n.ID, &n.ParentID, &n.Name, &n.Position.X, &n.Position.Y, &created); err != nil {
		return nil, err
	}
	n.ParentID = normalizeParent(n.ParentID)
	if created != 0 {
		n.CreatedAt = time.Unix(0, created).UTC()
	}
	return &n, nil
}
