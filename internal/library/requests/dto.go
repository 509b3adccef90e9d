package requests

// ===== Requests =====

type SubmitRequest struct {
	BookName   string `json:"book_name" binding:"required"`
	AuthorName string `json:"author_name" binding:"required"`
}

// ===== Responses =====

type RequestResponse struct {
	RequestID   int64  `json:"request_id"`
	RequestULID string `json:"request_ulid"`
	BookName    string `json:"book_name"`
	AuthorName  string `json:"author_name"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	LoggedDate  string `json:"request_logged_date"`
	Status      string `json:"request_status"`
}
