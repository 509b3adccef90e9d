package workflow

import (
	"github.com/shopspring/decimal"

	"LMS-backend/internal/library/books"
)

// 蔵書追加。request_status が付いていれば「リクエスト起点の追加」で、
// 同名のPendingリクエストをそのマーカーで消し込む。
type AdminAddBookRequest struct {
	BookID        int64           `json:"book_id" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Author        string          `json:"author" binding:"required"`
	Cover         *string         `json:"cover,omitempty"`
	Price         decimal.Decimal `json:"price"`
	RequestStatus *string         `json:"request_status,omitempty"`
}

func (r AdminAddBookRequest) book() books.AddBookRequest {
	return books.AddBookRequest{
		BookID: r.BookID,
		Name:   r.Name,
		Author: r.Author,
		Cover:  r.Cover,
		Price:  r.Price,
	}
}
