package workflow

import (
	"context"
	"database/sql"

	"LMS-backend/internal/library/books"
	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/library/loans"
	"LMS-backend/internal/library/requests"
	"LMS-backend/internal/platform/db"
)

// ===== 依存先 =====

type Catalog interface {
	AddBook(ctx context.Context, dbx db.DBTX, in books.AddBookRequest) (books.BookResponse, error)
}

type Ledger interface {
	Issue(ctx context.Context, in loans.IssueRequest, userID, userName string) (*loans.LoanResponse, error)
	Return(ctx context.Context, bookName, authorName, userID string) error
}

type Queue interface {
	Submit(ctx context.Context, in requests.SubmitRequest, userID, userName string) (*requests.RequestResponse, error)
	MarkFulfilled(ctx context.Context, dbx db.DBTX, bookName, authorName, marker string) error
}

type txRunner func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error

// ===== Service本体 =====

// 蔵書・貸出・リクエストをまたぐ操作の調整役。
// 書き込みが2エンティティに及ぶのは AdminAddBook だけで、そこはTxで括る。
type Service struct {
	catalog Catalog
	ledger  Ledger
	queue   Queue
	runTx   txRunner
}

func NewService(conn *sql.DB, catalog *books.Service, ledger *loans.Service, queue *requests.Service) *Service {
	return &Service{
		catalog: catalog,
		ledger:  ledger,
		queue:   queue,
		runTx: func(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
			return db.RunInTx(ctx, conn, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
		},
	}
}

// AdminAddBook 蔵書追加。マーカー付きなら同一Txで該当リクエストも消し込む。
// 片方だけ反映された状態は残らない。
func (s *Service) AdminAddBook(ctx context.Context, in AdminAddBookRequest) (books.BookResponse, error) {
	var out books.BookResponse
	err := s.runTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		res, err := s.catalog.AddBook(ctx, tx, in.book())
		if err != nil {
			return err
		}
		out = res

		if in.RequestStatus != nil && *in.RequestStatus != "" {
			if err := s.queue.MarkFulfilled(ctx, tx, in.Name, in.Author, *in.RequestStatus); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return books.BookResponse{}, err
	}
	return out, nil
}

func (s *Service) UserIssueBook(ctx context.Context, in loans.IssueRequest, userID, userName string) (*loans.LoanResponse, error) {
	if userID == "" {
		return nil, liberr.ErrInvalid("user_id is required")
	}
	return s.ledger.Issue(ctx, in, userID, userName)
}

func (s *Service) UserReturnBook(ctx context.Context, bookName, authorName, userID string) error {
	if userID == "" {
		return liberr.ErrInvalid("user_id is required")
	}
	return s.ledger.Return(ctx, bookName, authorName, userID)
}

func (s *Service) UserRequestBook(ctx context.Context, in requests.SubmitRequest, userID, userName string) (*requests.RequestResponse, error) {
	if userID == "" {
		return nil, liberr.ErrInvalid("user_id is required")
	}
	return s.queue.Submit(ctx, in, userID, userName)
}
