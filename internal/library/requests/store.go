package requests

import (
	"context"
	"database/sql"
	"errors"

	"LMS-backend/internal/platform/db"
)

type RequestStore interface {
	Insert(ctx context.Context, r *BookRequest) error
	GetByNameAuthor(ctx context.Context, name, author string) (*BookRequest, error)
	ListByUser(ctx context.Context, userID string) ([]BookRequest, error)
	ListByStatus(ctx context.Context, status string) ([]BookRequest, error)
	List(ctx context.Context) ([]BookRequest, error)
	UpdateStatus(ctx context.Context, dbx db.DBTX, name, author, status string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) RequestStore { return &Store{db: db} }

const requestColumns = `request_id, request_ulid, book_name, author_name, user_id, user_name, logged_on, request_status`

func scanRequest(row interface{ Scan(dest ...any) error }) (*BookRequest, error) {
	var r BookRequest
	err := row.Scan(
		&r.RequestID,
		&r.RequestULID,
		&r.BookName,
		&r.AuthorName,
		&r.UserID,
		&r.UserName,
		&r.LoggedOn,
		&r.Status,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) Insert(ctx context.Context, r *BookRequest) error {
	const q = `
INSERT INTO book_requests (request_ulid, book_name, author_name, user_id, user_name, logged_on, request_status)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q,
		r.RequestULID, r.BookName, r.AuthorName, r.UserID, r.UserName, r.LoggedOn, r.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.RequestID = id
	return nil
}

func (s *Store) GetByNameAuthor(ctx context.Context, name, author string) (*BookRequest, error) {
	const q = `
SELECT ` + requestColumns + `
FROM book_requests
WHERE book_name = ? AND author_name = ?
LIMIT 1
`
	r, err := scanRequest(s.db.QueryRowContext(ctx, q, name, author))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]BookRequest, error) {
	const q = `
SELECT ` + requestColumns + `
FROM book_requests
WHERE user_id = ?
ORDER BY logged_on DESC
`
	return s.queryList(ctx, q, userID)
}

func (s *Store) ListByStatus(ctx context.Context, status string) ([]BookRequest, error) {
	const q = `
SELECT ` + requestColumns + `
FROM book_requests
WHERE request_status = ?
ORDER BY logged_on DESC
`
	return s.queryList(ctx, q, status)
}

func (s *Store) List(ctx context.Context) ([]BookRequest, error) {
	const q = `
SELECT ` + requestColumns + `
FROM book_requests
ORDER BY logged_on DESC
`
	return s.queryList(ctx, q)
}

// 消し込みは行を消さずステータスだけ書き換える。該当なしは 0 行で返す。
func (s *Store) UpdateStatus(ctx context.Context, dbx db.DBTX, name, author, status string) (int64, error) {
	const q = `
UPDATE book_requests
SET request_status = ?
WHERE book_name = ? AND author_name = ?
`
	res, err := dbx.ExecContext(ctx, q, status, name, author)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) queryList(ctx context.Context, q string, args ...any) ([]BookRequest, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BookRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	return items, rows.Err()
}
