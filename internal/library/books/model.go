package books

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// 蔵書1件。book_id は管理者が採番する。
type Book struct {
	BookID    int64
	Name      string
	Author    string
	Cover     sql.NullString
	Price     decimal.Decimal
	CreatedAt time.Time
}
