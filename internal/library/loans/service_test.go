package loans

import (
	"context"
	"fmt"
	"testing"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LMS-backend/internal/library/liberr"
)

type fakeLoanStore struct {
	loans []Loan
	seq   int64
}

func (f *fakeLoanStore) Insert(ctx context.Context, l *Loan) error {
	for i := range f.loans {
		if f.loans[i].BookName == l.BookName &&
			f.loans[i].AuthorName == l.AuthorName &&
			f.loans[i].UserID == l.UserID {
			return &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	f.seq++
	l.LoanID = f.seq
	f.loans = append(f.loans, *l)
	return nil
}

func (f *fakeLoanStore) ListByUser(ctx context.Context, userID string) ([]Loan, error) {
	var out []Loan
	for i := range f.loans {
		if f.loans[i].UserID == userID {
			out = append(out, f.loans[i])
		}
	}
	return out, nil
}

func (f *fakeLoanStore) List(ctx context.Context, p Page) ([]Loan, int64, error) {
	return f.loans, int64(len(f.loans)), nil
}

func (f *fakeLoanStore) Delete(ctx context.Context, bookName, authorName, userID string) (int64, error) {
	kept := f.loans[:0]
	var n int64
	for i := range f.loans {
		if f.loans[i].BookName == bookName &&
			f.loans[i].AuthorName == authorName &&
			f.loans[i].UserID == userID {
			n++
			continue
		}
		kept = append(kept, f.loans[i])
	}
	f.loans = kept
	return n, nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type seqIDGen struct{ n int }

func (g *seqIDGen) New() (string, error) {
	g.n++
	return fmt.Sprintf("01TESTULID%016d", g.n), nil
}

func newTestService(store LoanStore, now time.Time) *Service {
	return &Service{store: store, clock: fixedClock{t: now}, id: &seqIDGen{}}
}

func TestIssue(t *testing.T) {
	ctx := context.Background()

	t.Run("due date is ten calendar days out", func(t *testing.T) {
		svc := newTestService(&fakeLoanStore{}, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC))

		res, err := svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-05", res.IssuedDate)
		assert.Equal(t, "2024-03-15", res.ReturnDate)
	})

	t.Run("due date crosses the year boundary", func(t *testing.T) {
		svc := newTestService(&fakeLoanStore{}, time.Date(2024, 12, 25, 9, 0, 0, 0, time.UTC))

		res, err := svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)
		assert.Equal(t, "2024-12-25", res.IssuedDate)
		assert.Equal(t, "2025-01-04", res.ReturnDate)
	})

	t.Run("second issue of the same title to the same user conflicts", func(t *testing.T) {
		svc := newTestService(&fakeLoanStore{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)

		_, err = svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.Error(t, err)
		assert.Equal(t, liberr.CodeAlreadyIssued, liberr.CodeOf(err))
	})

	t.Run("same title can be issued to different users", func(t *testing.T) {
		store := &fakeLoanStore{}
		svc := newTestService(store, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)
		_, err = svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u2", "Duncan Idaho")
		require.NoError(t, err)
		assert.Len(t, store.loans, 2)
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		svc := newTestService(&fakeLoanStore{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.Issue(ctx, IssueRequest{BookName: " ", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.Error(t, err)
		assert.Equal(t, liberr.CodeInvalidArgument, liberr.CodeOf(err))
	})
}

func TestReturn(t *testing.T) {
	ctx := context.Background()

	t.Run("issue then return leaves the ledger empty", func(t *testing.T) {
		store := &fakeLoanStore{}
		svc := newTestService(store, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)

		require.NoError(t, svc.Return(ctx, "Dune", "Frank Herbert", "u1"))

		items, err := svc.ListForUser(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("no matching loan is a silent no-op", func(t *testing.T) {
		svc := newTestService(&fakeLoanStore{}, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		assert.NoError(t, svc.Return(ctx, "Dune", "Frank Herbert", "u1"))
	})

	t.Run("only the caller's loan is removed", func(t *testing.T) {
		store := &fakeLoanStore{}
		svc := newTestService(store, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

		_, err := svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u1", "Paul Atreides")
		require.NoError(t, err)
		_, err = svc.Issue(ctx, IssueRequest{BookName: "Dune", AuthorName: "Frank Herbert"}, "u2", "Duncan Idaho")
		require.NoError(t, err)

		require.NoError(t, svc.Return(ctx, "Dune", "Frank Herbert", "u1"))

		remaining, err := svc.ListForUser(ctx, "u2")
		require.NoError(t, err)
		assert.Len(t, remaining, 1)
	})
}
