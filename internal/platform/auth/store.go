package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Member struct {
	UserID       string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type MemberStore interface {
	GetByID(ctx context.Context, userID string) (*Member, error)
	GetByEmail(ctx context.Context, email string) (*Member, error)
	Create(ctx context.Context, m *Member) error
	List(ctx context.Context) ([]Member, error)
	Delete(ctx context.Context, userID string) (int64, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) (int64, error)
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) MemberStore {
	return &Store{db: db}
}

const memberColumns = `user_id, email, first_name, last_name, password_hash, role, created_at`

func scanMember(row interface{ Scan(dest ...any) error }) (*Member, error) {
	var m Member
	err := row.Scan(
		&m.UserID,
		&m.Email,
		&m.FirstName,
		&m.LastName,
		&m.PasswordHash,
		&m.Role,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetByID(ctx context.Context, userID string) (*Member, error) {
	const q = `
SELECT ` + memberColumns + `
FROM members
WHERE user_id = ?
LIMIT 1
`
	m, err := scanMember(s.db.QueryRowContext(ctx, q, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Member, error) {
	const q = `
SELECT ` + memberColumns + `
FROM members
WHERE email = ?
LIMIT 1
`
	m, err := scanMember(s.db.QueryRowContext(ctx, q, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Store) Create(ctx context.Context, m *Member) error {
	const q = `
INSERT INTO members (user_id, email, first_name, last_name, password_hash, role, created_at)
VALUES (?, ?, ?, ?, ?, ?, NOW(6))
`
	_, err := s.db.ExecContext(ctx, q, m.UserID, m.Email, m.FirstName, m.LastName, m.PasswordHash, m.Role)
	return err
}

func (s *Store) List(ctx context.Context) ([]Member, error) {
	const q = `
SELECT ` + memberColumns + `
FROM members
ORDER BY created_at DESC
`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (s *Store) Delete(ctx context.Context, userID string) (int64, error) {
	const q = `DELETE FROM members WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) (int64, error) {
	const q = `UPDATE members SET password_hash = ? WHERE user_id = ?`
	res, err := s.db.ExecContext(ctx, q, passwordHash, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
