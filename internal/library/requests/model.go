package requests

import "time"

// リクエストのステータス。Pending 以外は「対応済みマーカー」扱い。
const (
	StatusPending = "Pending"

	// 管理者が蔵書追加でリクエストを消し込むときの既定マーカー
	DefaultFulfilledMarker = "Book Added"
)

// 未所蔵タイトルへのリクエスト。(book_name, author_name) につき1件だけ残す。
type BookRequest struct {
	RequestID   int64
	RequestULID string
	BookName    string
	AuthorName  string
	UserID      string
	UserName    string
	LoggedOn    time.Time
	Status      string
}
