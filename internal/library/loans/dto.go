package loans

import (
	"github.com/shopspring/decimal"
)

// ===== Requests =====

type IssueRequest struct {
	BookName   string          `json:"book_name" binding:"required"`
	AuthorName string          `json:"author_name" binding:"required"`
	Price      decimal.Decimal `json:"price"`
	Cover      *string         `json:"cover,omitempty"`
}

type ReturnRequest struct {
	BookName   string `json:"book_name" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
}

// ===== Responses =====

// 日付は YYYY-MM-DD 表記の文字列で返す
type LoanResponse struct {
	LoanID     int64           `json:"loan_id"`
	LoanULID   string          `json:"loan_ulid"`
	BookName   string          `json:"book_name"`
	AuthorName string          `json:"author_name"`
	Price      decimal.Decimal `json:"price"`
	Cover      *string         `json:"cover,omitempty"`
	IssuedDate string          `json:"issued_date"`
	ReturnDate string          `json:"return_date"`
	UserID     string          `json:"user_id"`
	UserName   string          `json:"user_name"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}
