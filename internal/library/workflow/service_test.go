package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/library/books"
	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/library/loans"
	"LMS-backend/internal/library/requests"
	"LMS-backend/internal/platform/db"
)

type fakeCatalog struct {
	added  []books.AddBookRequest
	addErr error
}

func (f *fakeCatalog) AddBook(ctx context.Context, dbx db.DBTX, in books.AddBookRequest) (books.BookResponse, error) {
	if f.addErr != nil {
		return books.BookResponse{}, f.addErr
	}
	f.added = append(f.added, in)
	return books.BookResponse{BookID: in.BookID, Name: in.Name, Author: in.Author}, nil
}

type fakeQueue struct {
	fulfilled    []string
	fulfillErr   error
	submitted    []requests.SubmitRequest
	submitResult *requests.RequestResponse
	submitErr    error
}

func (f *fakeQueue) Submit(ctx context.Context, in requests.SubmitRequest, userID, userName string) (*requests.RequestResponse, error) {
	f.submitted = append(f.submitted, in)
	return f.submitResult, f.submitErr
}

func (f *fakeQueue) MarkFulfilled(ctx context.Context, dbx db.DBTX, bookName, authorName, marker string) error {
	if f.fulfillErr != nil {
		return f.fulfillErr
	}
	f.fulfilled = append(f.fulfilled, bookName+"/"+authorName+"/"+marker)
	return nil
}

type fakeLedger struct {
	issued   int
	returned int
}

func (f *fakeLedger) Issue(ctx context.Context, in loans.IssueRequest, userID, userName string) (*loans.LoanResponse, error) {
	f.issued++
	return &loans.LoanResponse{BookName: in.BookName, AuthorName: in.AuthorName, UserID: userID}, nil
}

func (f *fakeLedger) Return(ctx context.Context, bookName, authorName, userID string) error {
	f.returned++
	return nil
}

// Txの開始と結果だけ記録するランナー
type spyTxRunner struct {
	began      int
	committed  int
	rolledBack int
}

func (s *spyTxRunner) run(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	s.began++
	if err := fn(ctx, nil); err != nil {
		s.rolledBack++
		return err
	}
	s.committed++
	return nil
}

func newTestService(catalog Catalog, ledger Ledger, queue Queue, runner *spyTxRunner) *Service {
	return &Service{catalog: catalog, ledger: ledger, queue: queue, runTx: runner.run}
}

func marker(s string) *string { return &s }

func TestAdminAddBook(t *testing.T) {
	ctx := context.Background()

	t.Run("with marker fulfills the request in the same transaction", func(t *testing.T) {
		catalog := &fakeCatalog{}
		queue := &fakeQueue{}
		runner := &spyTxRunner{}
		svc := newTestService(catalog, &fakeLedger{}, queue, runner)

		res, err := svc.AdminAddBook(ctx, AdminAddBookRequest{
			BookID:        1,
			Name:          "Dune",
			Author:        "Frank Herbert",
			RequestStatus: marker("Book Added"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Dune", res.Name)
		assert.Len(t, catalog.added, 1)
		require.Len(t, queue.fulfilled, 1)
		assert.Equal(t, "Dune/Frank Herbert/Book Added", queue.fulfilled[0])
		assert.Equal(t, 1, runner.committed)
		assert.Equal(t, 0, runner.rolledBack)
	})

	t.Run("without marker does not touch the request queue", func(t *testing.T) {
		catalog := &fakeCatalog{}
		queue := &fakeQueue{}
		runner := &spyTxRunner{}
		svc := newTestService(catalog, &fakeLedger{}, queue, runner)

		_, err := svc.AdminAddBook(ctx, AdminAddBookRequest{BookID: 1, Name: "Dune", Author: "Frank Herbert"})
		require.NoError(t, err)
		assert.Empty(t, queue.fulfilled)
		assert.Equal(t, 1, runner.committed)
	})

	t.Run("failed insert never reaches fulfillment", func(t *testing.T) {
		catalog := &fakeCatalog{addErr: liberr.New(liberr.CodeDuplicateNameAuthor, "dup")}
		queue := &fakeQueue{}
		runner := &spyTxRunner{}
		svc := newTestService(catalog, &fakeLedger{}, queue, runner)

		_, err := svc.AdminAddBook(ctx, AdminAddBookRequest{
			BookID:        1,
			Name:          "Dune",
			Author:        "Frank Herbert",
			RequestStatus: marker("Book Added"),
		})
		require.Error(t, err)
		assert.Equal(t, liberr.CodeDuplicateNameAuthor, liberr.CodeOf(err))
		assert.Empty(t, queue.fulfilled)
		assert.Equal(t, 1, runner.rolledBack)
		assert.Equal(t, 0, runner.committed)
	})

	t.Run("failed fulfillment aborts the transaction", func(t *testing.T) {
		catalog := &fakeCatalog{}
		queue := &fakeQueue{fulfillErr: errors.New("update failed")}
		runner := &spyTxRunner{}
		svc := newTestService(catalog, &fakeLedger{}, queue, runner)

		_, err := svc.AdminAddBook(ctx, AdminAddBookRequest{
			BookID:        1,
			Name:          "Dune",
			Author:        "Frank Herbert",
			RequestStatus: marker("Book Added"),
		})
		require.Error(t, err)
		assert.Equal(t, 1, runner.rolledBack)
		assert.Equal(t, 0, runner.committed)
	})
}

func TestUserOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("issue and return delegate to the ledger", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := newTestService(&fakeCatalog{}, ledger, &fakeQueue{}, &spyTxRunner{})

		_, err := svc.UserIssueBook(ctx, loans.IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)
		require.NoError(t, svc.UserReturnBook(ctx, "Dune", "Frank Herbert", "u1"))
		assert.Equal(t, 1, ledger.issued)
		assert.Equal(t, 1, ledger.returned)
	})

	t.Run("request delegates to the queue", func(t *testing.T) {
		queue := &fakeQueue{submitResult: &requests.RequestResponse{BookName: "Dune"}}
		svc := newTestService(&fakeCatalog{}, &fakeLedger{}, queue, &spyTxRunner{})

		res, err := svc.UserRequestBook(ctx, requests.SubmitRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)
		assert.Equal(t, "Dune", res.BookName)
		assert.Len(t, queue.submitted, 1)
	})

	t.Run("missing user id is rejected before delegation", func(t *testing.T) {
		ledger := &fakeLedger{}
		svc := newTestService(&fakeCatalog{}, ledger, &fakeQueue{}, &spyTxRunner{})

		_, err := svc.UserIssueBook(ctx, loans.IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "", "")
		require.Error(t, err)
		assert.Equal(t, liberr.CodeInvalidArgument, liberr.CodeOf(err))
		assert.Equal(t, 0, ledger.issued)
	})
}
