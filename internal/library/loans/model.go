package loans

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// 貸出1件。蔵書情報は貸出時点のスナップショットを持つ。
// 返却で行ごと削除する（履歴は残さない）。
type Loan struct {
	LoanID     int64
	LoanULID   string
	BookName   string
	AuthorName string
	Price      decimal.Decimal
	Cover      sql.NullString
	IssuedOn   time.Time
	DueOn      time.Time
	UserID     string
	UserName   string
}
