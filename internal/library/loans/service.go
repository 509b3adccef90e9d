package loans

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/oklog/ulid/v2"

	"LMS-backend/internal/library/dates"
	"LMS-backend/internal/library/liberr"
)

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ===== Service本体 =====

type Service struct {
	store LoanStore
	clock Clock
	id    IDGen
}

func NewService(db *sql.DB) *Service {
	return &Service{
		store: NewStore(db),
		clock: realClock{},
		id:    ulidGen{},
	}
}

// Issue 貸出登録。返却期限は貸出日の10日後（暦日）。
// 部数管理は存在しないので、別ユーザーへの同一タイトル同時貸出は許容される。
func (s *Service) Issue(ctx context.Context, in IssueRequest, userID, userName string) (*LoanResponse, error) {
	name := strings.TrimSpace(in.BookName)
	author := strings.TrimSpace(in.AuthorName)
	if name == "" || author == "" {
		return nil, liberr.ErrInvalid("book_name and author_name are required")
	}
	if userID == "" {
		return nil, liberr.ErrInvalid("user_id is required")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	loan := &Loan{
		LoanULID:   idStr,
		BookName:   name,
		AuthorName: author,
		Price:      in.Price,
		IssuedOn:   now,
		DueOn:      dates.Due(now),
		UserID:     userID,
		UserName:   userName,
	}
	if in.Cover != nil && *in.Cover != "" {
		loan.Cover = sql.NullString{String: *in.Cover, Valid: true}
	}

	if err := s.store.Insert(ctx, loan); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return nil, liberr.New(liberr.CodeAlreadyIssued, "this book is already issued to you")
		}
		return nil, err
	}

	resp := toLoanResponse(loan)
	return &resp, nil
}

// Return 返却＝貸出行の削除。該当なしでも成功扱い（契約が弱い点は仕様）。
func (s *Service) Return(ctx context.Context, bookName, authorName, userID string) error {
	name := strings.TrimSpace(bookName)
	author := strings.TrimSpace(authorName)
	if name == "" || author == "" {
		return liberr.ErrInvalid("book_name and author_name are required")
	}
	if userID == "" {
		return liberr.ErrInvalid("user_id is required")
	}

	n, err := s.store.Delete(ctx, name, author, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		log.Printf("[WARN] return: no open loan for (%s, %s, %s)", name, author, userID)
	}
	return nil
}

// 自分の貸出一覧
func (s *Service) ListForUser(ctx context.Context, userID string) ([]LoanResponse, error) {
	if userID == "" {
		return nil, liberr.ErrInvalid("user_id is required")
	}
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]LoanResponse, 0, len(items))
	for i := range items {
		out = append(out, toLoanResponse(&items[i]))
	}
	return out, nil
}

// 全貸出一覧（管理者用）
func (s *Service) ListAll(ctx context.Context, p Page) ([]LoanResponse, int64, error) {
	items, total, err := s.store.List(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LoanResponse, 0, len(items))
	for i := range items {
		out = append(out, toLoanResponse(&items[i]))
	}
	return out, total, nil
}

// ===== helpers =====

func toLoanResponse(l *Loan) LoanResponse {
	resp := LoanResponse{
		LoanID:     l.LoanID,
		LoanULID:   l.LoanULID,
		BookName:   l.BookName,
		AuthorName: l.AuthorName,
		Price:      l.Price,
		IssuedDate: dates.Format(l.IssuedOn),
		ReturnDate: dates.Format(l.DueOn),
		UserID:     l.UserID,
		UserName:   l.UserName,
	}
	if l.Cover.Valid {
		val := l.Cover.String
		resp.Cover = &val
	}
	return resp
}
