package books

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"LMS-backend/internal/platform/db"
)

type CatalogStore interface {
	Insert(ctx context.Context, dbx db.DBTX, b *Book) error
	GetByID(ctx context.Context, dbx db.DBTX, bookID int64) (*Book, error)
	GetByNameAuthor(ctx context.Context, dbx db.DBTX, name, author string) (*Book, error)
	List(ctx context.Context, p Page) ([]Book, int64, error)
	Search(ctx context.Context, query string) ([]Book, error)
	ListAll(ctx context.Context, dbx db.DBTX) ([]Book, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) CatalogStore { return &Store{db: db} }

const bookColumns = `book_id, name, author, cover, price, created_at`

func scanBook(row interface{ Scan(dest ...any) error }) (*Book, error) {
	var b Book
	err := row.Scan(&b.BookID, &b.Name, &b.Author, &b.Cover, &b.Price, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Store) Insert(ctx context.Context, dbx db.DBTX, b *Book) error {
	const q = `
INSERT INTO books (book_id, name, author, cover, price, created_at)
VALUES (?, ?, ?, ?, ?, NOW(6))
`
	_, err := dbx.ExecContext(ctx, q, b.BookID, b.Name, b.Author, b.Cover, b.Price)
	return err
}

func (s *Store) GetByID(ctx context.Context, dbx db.DBTX, bookID int64) (*Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE book_id = ?
LIMIT 1
`
	b, err := scanBook(dbx.QueryRowContext(ctx, q, bookID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) GetByNameAuthor(ctx context.Context, dbx db.DBTX, name, author string) (*Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE name = ? AND author = ?
LIMIT 1
`
	b, err := scanBook(dbx.QueryRowContext(ctx, q, name, author))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) List(ctx context.Context, p Page) ([]Book, int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + bookColumns + ` FROM books ORDER BY created_at `)
	if strings.EqualFold(p.Order, "asc") {
		sb.WriteString("ASC")
	} else {
		sb.WriteString("DESC")
	}
	sb.WriteString(" LIMIT ? OFFSET ?")

	rows, err := s.db.QueryContext(ctx, sb.String(), p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Search(ctx context.Context, query string) ([]Book, error) {
	// 大文字小文字を区別する部分一致
	const q = `
SELECT ` + bookColumns + `
FROM books
WHERE name LIKE BINARY CONCAT('%', ?, '%')
   OR author LIKE BINARY CONCAT('%', ?, '%')
ORDER BY created_at
`
	rows, err := s.db.QueryContext(ctx, q, query, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

func (s *Store) ListAll(ctx context.Context, dbx db.DBTX) ([]Book, error) {
	const q = `
SELECT ` + bookColumns + `
FROM books
ORDER BY book_id
`
	rows, err := dbx.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}
