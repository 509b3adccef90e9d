package requests

import (
	"context"
	"crypto/rand"
	"database/sql"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"LMS-backend/internal/library/dates"
	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/platform/db"
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
	store RequestStore
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

// Submit リクエスト登録。同じ (book_name, author_name) のリクエストが既にあれば
// 新規行は作らず、本人か他人かで通知コードを分ける。
func (s *Service) Submit(ctx context.Context, in SubmitRequest, userID, userName string) (*RequestResponse, error) {
	name := strings.TrimSpace(in.BookName)
	author := strings.TrimSpace(in.AuthorName)
	if name == "" || author == "" {
		return nil, liberr.ErrInvalid("book_name and author_name are required")
	}
	if userID == "" {
		return nil, liberr.ErrInvalid("user_id is required")
	}

	existing, err := s.store.GetByNameAuthor(ctx, name, author)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserID == userID {
			return nil, liberr.New(liberr.CodeAlreadyRequestedByYou, "you have already requested this book")
		}
		return nil, liberr.New(liberr.CodeAlreadyRequestedByOther, "this book has already been requested by another member")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	r := &BookRequest{
		RequestULID: idStr,
		BookName:    name,
		AuthorName:  author,
		UserID:      userID,
		UserName:    userName,
		LoggedOn:    s.clock.Now(),
		Status:      StatusPending,
	}
	if err := s.store.Insert(ctx, r); err != nil {
		return nil, err
	}

	resp := toRequestResponse(r)
	return &resp, nil
}

// MarkFulfilled 該当リクエストのステータスをマーカーに書き換える。該当なしは何もしない。
// dbx に Tx を渡せば蔵書追加と同一トランザクションで消し込める。
func (s *Service) MarkFulfilled(ctx context.Context, dbx db.DBTX, bookName, authorName, marker string) error {
	name := strings.TrimSpace(bookName)
	author := strings.TrimSpace(authorName)
	if name == "" || author == "" {
		return liberr.ErrInvalid("book_name and author_name are required")
	}
	if marker == "" {
		marker = DefaultFulfilledMarker
	}

	_, err := s.store.UpdateStatus(ctx, dbx, name, author, marker)
	return err
}

// ===== 参照 =====

func (s *Service) ListForUser(ctx context.Context, userID string) ([]RequestResponse, error) {
	if userID == "" {
		return nil, liberr.ErrInvalid("user_id is required")
	}
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(items), nil
}

func (s *Service) ListPending(ctx context.Context) ([]RequestResponse, error) {
	items, err := s.store.ListByStatus(ctx, StatusPending)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(items), nil
}

func (s *Service) ListAll(ctx context.Context) ([]RequestResponse, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return toRequestResponses(items), nil
}

// ===== helpers =====

func toRequestResponse(r *BookRequest) RequestResponse {
	return RequestResponse{
		RequestID:   r.RequestID,
		RequestULID: r.RequestULID,
		BookName:    r.BookName,
		AuthorName:  r.AuthorName,
		UserID:      r.UserID,
		UserName:    r.UserName,
		LoggedDate:  dates.Format(r.LoggedOn),
		Status:      r.Status,
	}
}

func toRequestResponses(items []BookRequest) []RequestResponse {
	out := make([]RequestResponse, 0, len(items))
	for i := range items {
		out = append(out, toRequestResponse(&items[i]))
	}
	return out
}
