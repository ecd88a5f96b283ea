// Package access records requests for access to the content generation
// tools. Requests are kept in SQLite until an administrator approves them.
package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bhk-seo/seotools/apperr"
)

// Status of an access request.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ErrNotFound is returned when no request has the given id.
var ErrNotFound = errors.New("access request not found")

// Request is one submitted access request.
type Request struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Website   string `json:"website,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// Store wraps a SQLite database of access requests.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and creates the schema.
func NewStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS access_requests (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL,
    website TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_access_requests_email ON access_requests(email);
`)
	return err
}

// NormalizeEmail validates email and returns its lowercase address part.
func NormalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || !strings.Contains(addr.Address, "@") {
		return "", apperr.InvalidInput("Please enter a valid email address.")
	}
	return strings.ToLower(addr.Address), nil
}

// Create records a pending request. A second request from the same email
// returns the existing one.
func (s *Store) Create(ctx context.Context, email, website string) (Request, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return Request{}, err
	}

	existing, err := s.byEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Request{}, err
	}

	r := Request{
		ID:        uuid.NewString(),
		Email:     email,
		Website:   strings.TrimSpace(website),
		Status:    StatusPending,
		CreatedAt: s.now().UTC().Format(time.RFC3339),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO access_requests (id, email, website, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Email, r.Website, r.Status, r.CreatedAt)
	if err != nil {
		return Request{}, fmt.Errorf("insert access request: %w", err)
	}
	return r, nil
}

// List returns requests newest first. An empty status returns all of them.
func (s *Store) List(ctx context.Context, status string) ([]Request, error) {
	query := `SELECT id, email, website, status, created_at FROM access_requests`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		var r Request
		if err := rows.Scan(&r.ID, &r.Email, &r.Website, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetStatus changes the status of the request with id.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	switch status {
	case StatusPending, StatusApproved, StatusRejected:
	default:
		return apperr.InvalidInput("Unknown status %q.", status)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE access_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) byEmail(ctx context.Context, email string) (Request, error) {
	var r Request
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, website, status, created_at FROM access_requests WHERE email = ?`, email).
		Scan(&r.ID, &r.Email, &r.Website, &r.Status, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	if err != nil {
		return Request{}, err
	}
	return r, nil
}
