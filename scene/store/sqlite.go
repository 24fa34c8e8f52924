// ABOUTME: SQLite-backed DocumentStore keeping one row per (user, name) with the JSON body inline.
// ABOUTME: Saves are upserts that keep the original doc_id and created_at.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/2389-research/tracie/scene/serial"
	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore persists documents in a single SQLite database.
type SqliteStore struct {
	db  *sql.DB
	now Clock
}

// OpenSqlite opens or creates a document database at path and runs the
// schema migration. A nil clock uses time.Now.
func OpenSqlite(path string, now Clock) (*SqliteStore, error) {
	if now == nil {
		now = time.Now
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			revision TEXT NOT NULL,
			body TEXT NOT NULL,
			shapes INTEGER NOT NULL,
			links INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (user_id, name)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_user ON documents(user_id, updated_at);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SqliteStore{db: db, now: now}, nil
}

func (s *SqliteStore) Save(ctx context.Context, user, name string, doc serial.Document) (DocumentInfo, error) {
	if err := checkSave(user, name, doc); err != nil {
		return DocumentInfo{}, err
	}
	doc.CreatedAt, doc.UpdatedAt = "", ""
	body, err := serial.Encode(doc)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("encode document: %w", err)
	}
	shapes, links := doc.Counts()
	ts := formatTime(s.now())
	revision := NewRevision()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (doc_id, user_id, name, revision, body, shapes, links, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, name) DO UPDATE SET
			revision = excluded.revision,
			body = excluded.body,
			shapes = excluded.shapes,
			links = excluded.links,
			updated_at = excluded.updated_at`,
		NewRevision(), user, name, revision, string(body), shapes, links, ts, ts,
	)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("upsert document: %w", err)
	}

	var info DocumentInfo
	err = s.db.QueryRowContext(ctx,
		"SELECT name, revision, created_at, updated_at, shapes, links FROM documents WHERE user_id = ? AND name = ?",
		user, name,
	).Scan(&info.Name, &info.Revision, &info.CreatedAt, &info.UpdatedAt, &info.Shapes, &info.Links)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("read back document: %w", err)
	}
	return info, nil
}

func (s *SqliteStore) Load(ctx context.Context, user, name string) (serial.Document, error) {
	if err := checkKey(user, name); err != nil {
		return serial.Document{}, err
	}
	var body, created, updated string
	err := s.db.QueryRowContext(ctx,
		"SELECT body, created_at, updated_at FROM documents WHERE user_id = ? AND name = ?",
		user, name,
	).Scan(&body, &created, &updated)
	if err == sql.ErrNoRows {
		return serial.Document{}, ErrNotFound
	}
	if err != nil {
		return serial.Document{}, fmt.Errorf("load document: %w", err)
	}
	doc, err := serial.Decode([]byte(body))
	if err != nil {
		return serial.Document{}, fmt.Errorf("decode document: %w", err)
	}
	doc.CreatedAt, doc.UpdatedAt = created, updated
	return doc, nil
}

func (s *SqliteStore) List(ctx context.Context, user string) ([]DocumentInfo, error) {
	if err := checkUser(user); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, revision, created_at, updated_at, shapes, links FROM documents
		 WHERE user_id = ? ORDER BY updated_at DESC, name ASC`,
		user,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	infos := []DocumentInfo{}
	for rows.Next() {
		var info DocumentInfo
		if err := rows.Scan(&info.Name, &info.Revision, &info.CreatedAt, &info.UpdatedAt, &info.Shapes, &info.Links); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

func (s *SqliteStore) Delete(ctx context.Context, user, name string) error {
	if err := checkKey(user, name); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE user_id = ? AND name = ?", user, name)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the underlying database.
func (s *SqliteStore) Close() error {
	return s.db.Close()
}
