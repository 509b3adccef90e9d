package loans

import (
	"context"
	"database/sql"
	"strings"
)

type LoanStore interface {
	Insert(ctx context.Context, l *Loan) error
	ListByUser(ctx context.Context, userID string) ([]Loan, error)
	List(ctx context.Context, p Page) ([]Loan, int64, error)
	Delete(ctx context.Context, bookName, authorName, userID string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) LoanStore { return &Store{db: db} }

const loanColumns = `loan_id, loan_ulid, book_name, author_name, price, cover, issued_on, due_on, user_id, user_name`

func scanLoan(row interface{ Scan(dest ...any) error }) (*Loan, error) {
	var l Loan
	err := row.Scan(
		&l.LoanID,
		&l.LoanULID,
		&l.BookName,
		&l.AuthorName,
		&l.Price,
		&l.Cover,
		&l.IssuedOn,
		&l.DueOn,
		&l.UserID,
		&l.UserName,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// loans は UNIQUE KEY (book_name, author_name, user_id) を持つ。
// 同一ユーザーへの同一タイトル二重貸出はここで弾かれる（1062）。
func (s *Store) Insert(ctx context.Context, l *Loan) error {
	const q = `
INSERT INTO loans (loan_ulid, book_name, author_name, price, cover, issued_on, due_on, user_id, user_name)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`
	res, err := s.db.ExecContext(ctx, q,
		l.LoanULID, l.BookName, l.AuthorName, l.Price, l.Cover, l.IssuedOn, l.DueOn, l.UserID, l.UserName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	l.LoanID = id
	return nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]Loan, error) {
	const q = `
SELECT ` + loanColumns + `
FROM loans
WHERE user_id = ?
ORDER BY issued_on DESC
`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

func (s *Store) List(ctx context.Context, p Page) ([]Loan, int64, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + loanColumns + ` FROM loans ORDER BY issued_on `)
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

	var items []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM loans`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) Delete(ctx context.Context, bookName, authorName, userID string) (int64, error) {
	const q = `
DELETE FROM loans
WHERE book_name = ? AND author_name = ? AND user_id = ?
`
	res, err := s.db.ExecContext(ctx, q, bookName, authorName, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
