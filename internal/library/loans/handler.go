package loans

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/liberr"
	"LMS-backend/internal/platform/auth"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/loans/me", h.ListMyLoans)
	admin.GET("/loans", h.ListLoans)
}

func (h *Handler) ListMyLoans(c *gin.Context) {
	userID := c.GetString(auth.CtxUserIDKey)
	items, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) ListLoans(c *gin.Context) {
	p := Page{
		Limit:  atoiDef(c.Query("limit"), 50),
		Offset: atoiDef(c.Query("offset"), 0),
		Order:  strings.ToLower(c.DefaultQuery("order", "desc")),
	}
	items, total, err := h.svc.ListAll(c.Request.Context(), p)
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "next_offset": nextOffset(total, p)})
}

// ===== helpers =====

func atoiDef(s string, d int) int {
	if s == "" {
		return d
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return n
}

func nextOffset(total int64, p Page) int {
	n := p.Offset + p.Limit
	if n >= int(total) {
		return 0
	}
	return n
}
