package workflow

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/library/loans"
	"LMS-backend/internal/library/requests"
	"LMS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	admin.POST("/books", h.AddBook)

	r.POST("/loans", h.IssueBook)
	r.POST("/loans/return", h.ReturnBook)
	r.POST("/requests", h.RequestBook)
}

func (h *Handler) AddBook(c *gin.Context) {
	var req AdminAddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, liberr.Body(liberr.CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.AdminAddBook(c.Request.Context(), req)
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) IssueBook(c *gin.Context) {
	var req loans.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, liberr.Body(liberr.CodeInvalidArgument, "invalid json"))
		return
	}
	userID := c.GetString(auth.CtxUserIDKey)
	userName := c.GetString(auth.CtxUserNameKey)

	res, err := h.svc.UserIssueBook(c.Request.Context(), req, userID, userName)
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *Handler) ReturnBook(c *gin.Context) {
	var req loans.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, liberr.Body(liberr.CodeInvalidArgument, "invalid json"))
		return
	}
	userID := c.GetString(auth.CtxUserIDKey)

	if err := h.svc.UserReturnBook(c.Request.Context(), req.BookName, req.AuthorName, userID); err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "returned"})
}

func (h *Handler) RequestBook(c *gin.Context) {
	var req requests.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, liberr.Body(liberr.CodeInvalidArgument, "invalid json"))
		return
	}
	userID := c.GetString(auth.CtxUserIDKey)
	userName := c.GetString(auth.CtxUserNameKey)

	res, err := h.svc.UserRequestBook(c.Request.Context(), req, userID, userName)
	if err != nil {
		// 既リクエスト通知は致命的ではないので 200 で返す
		var api *liberr.APIError
		if errors.As(err, &api) &&
			(api.Code == liberr.CodeAlreadyRequestedByYou || api.Code == liberr.CodeAlreadyRequestedByOther) {
			c.JSON(http.StatusOK, gin.H{"code": api.Code, "message": api.Message})
			return
		}
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}
