package books

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"LMS-backend/internal/library/liberr"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, admin gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.GET("/books", h.ListBooks)
	r.GET("/books/search", h.SearchBooks)

	admin.GET("/books/export", h.ExportBooks)
}

func (h *Handler) ListBooks(c *gin.Context) {
	p := Page{
		Limit:  atoiDef(c.Query("limit"), 50),
		Offset: atoiDef(c.Query("offset"), 0),
		Order:  strings.ToLower(c.DefaultQuery("order", "desc")),
	}
	items, total, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "next_offset": nextOffset(total, p)})
}

func (h *Handler) SearchBooks(c *gin.Context) {
	items, err := h.svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (h *Handler) ExportBooks(c *gin.Context) {
	data, err := h.svc.ExportCSV(c.Request.Context())
	if err != nil {
		c.JSON(liberr.ToHTTPStatus(err), liberr.BodyFrom(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="books.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
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
