package books

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/platform/db"
)

type Service struct {
	db    *sql.DB
	store CatalogStore
}

func NewService(db *sql.DB) *Service { return &Service{db: db, store: NewStore(db)} }

// ===== 登録 =====

// AddBook 重複チェックして登録。dbx に Tx を渡せば呼び出し側のトランザクションに乗る。
func (s *Service) AddBook(ctx context.Context, dbx db.DBTX, in AddBookRequest) (BookResponse, error) {
	name := strings.TrimSpace(in.Name)
	author := strings.TrimSpace(in.Author)
	if name == "" || author == "" {
		return BookResponse{}, liberr.ErrInvalid("name and author are required")
	}
	if in.BookID <= 0 {
		return BookResponse{}, liberr.ErrInvalid("book_id must be a positive number")
	}

	// 1) (name, author) の重複
	byPair, err := s.store.GetByNameAuthor(ctx, dbx, name, author)
	if err != nil {
		return BookResponse{}, err
	}
	if byPair != nil {
		return BookResponse{}, liberr.New(liberr.CodeDuplicateNameAuthor, "a book with the same name and author already exists")
	}

	// 2) book_id の重複
	byID, err := s.store.GetByID(ctx, dbx, in.BookID)
	if err != nil {
		return BookResponse{}, err
	}
	if byID != nil {
		return BookResponse{}, liberr.New(liberr.CodeDuplicateID, "book_id already exists")
	}

	// 3) INSERT
	b := &Book{BookID: in.BookID, Name: name, Author: author, Price: in.Price}
	if in.Cover != nil && *in.Cover != "" {
		b.Cover = sql.NullString{String: *in.Cover, Valid: true}
	}
	if err := s.store.Insert(ctx, dbx, b); err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			// 事前チェックをすり抜けてUNIQUEキーが競合を検知した場合
			return BookResponse{}, liberr.New(liberr.CodeDuplicateNameAuthor, "a book with the same name and author already exists")
		}
		return BookResponse{}, err
	}

	// 4) created_at 込みで取り直して返却
	out, err := s.store.GetByID(ctx, dbx, in.BookID)
	if err != nil {
		return BookResponse{}, err
	}
	if out == nil {
		return BookResponse{}, liberr.ErrInternal("book not found after insert")
	}
	return toBookResponse(out), nil
}

// ===== 参照 =====

func (s *Service) List(ctx context.Context, p Page) ([]BookResponse, int64, error) {
	items, total, err := s.store.List(ctx, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]BookResponse, 0, len(items))
	for i := range items {
		out = append(out, toBookResponse(&items[i]))
	}
	return out, total, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]BookResponse, error) {
	items, err := s.store.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return nil, err
	}
	out := make([]BookResponse, 0, len(items))
	for i := range items {
		out = append(out, toBookResponse(&items[i]))
	}
	return out, nil
}

// ===== エクスポート =====

// ExportCSV 蔵書一覧をCSVにする。Excelで開けるようUTF-8 BOM付きで出力。
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	var items []Book
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		var err error
		items, err = s.store.ListAll(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := unicode.UTF8BOM.NewEncoder()
	w := csv.NewWriter(transform.NewWriter(&buf, enc))

	if err := w.Write([]string{"book_id", "name", "author", "price", "cover"}); err != nil {
		return nil, err
	}
	for i := range items {
		b := &items[i]
		cover := ""
		if b.Cover.Valid {
			cover = b.Cover.String
		}
		record := []string{
			strconv.FormatInt(b.BookID, 10),
			b.Name,
			b.Author,
			b.Price.String(),
			cover,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ===== helpers =====

func toBookResponse(b *Book) BookResponse {
	resp := BookResponse{
		BookID:    b.BookID,
		Name:      b.Name,
		Author:    b.Author,
		Price:     b.Price,
		CreatedAt: b.CreatedAt,
	}
	if b.Cover.Valid {
		val := b.Cover.String
		resp.Cover = &val
	}
	return resp
}
