package audit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.POST("/campaigns/:id/audit", h.Enqueue)
		v1.GET("/campaigns/:id/audit", h.Build)
		v1.GET("/campaigns/:id/audit/latest", h.Latest)
	}
}

func tenantID(c *gin.Context) string {
	if v := c.GetHeader("X-Tenant-ID"); v != "" {
		return v
	}
	return c.Query("tenant_id")
}

func (h *Handler) Enqueue(c *gin.Context) {
	out, err := h.svc.Enqueue(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, out)
}

func (h *Handler) Build(c *gin.Context) {
	out, err := h.svc.BuildReport(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) Latest(c *gin.Context) {
	out, err := h.svc.Latest(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}
