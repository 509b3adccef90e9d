package books

import (
	"time"

	"github.com/shopspring/decimal"
)

// ===== Requests =====

type AddBookRequest struct {
	BookID int64           `json:"book_id" binding:"required"`
	Name   string          `json:"name" binding:"required"`
	Author string          `json:"author" binding:"required"`
	Cover  *string         `json:"cover,omitempty"`
	Price  decimal.Decimal `json:"price"`
}

// ===== Responses =====

type BookResponse struct {
	BookID    int64           `json:"book_id"`
	Name      string          `json:"name"`
	Author    string          `json:"author"`
	Cover     *string         `json:"cover,omitempty"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}
