package requests

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/requests/me", h.ListMyRequests)
	admin.GET("/requests", h.ListRequests)
	admin.GET("/requests/pending", h.ListPendingRequests)
}

func (h *Handler) ListMyRequests(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)
	items, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) ListRequests(c *gin.Context) {
	items, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) ListPendingRequests(c *gin.Context) {
	items, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
