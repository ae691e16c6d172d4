package campaign

import (
	"net/http"

	"rewardplane/pkg/errutil"

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
		v1.POST("/campaigns", h.Create)
		v1.GET("/campaigns", h.List)
		v1.GET("/campaigns/:id", h.Get)
		v1.PATCH("/campaigns/:id", h.Update)
		v1.POST("/campaigns/:id/activate", h.Activate)
		v1.POST("/campaigns/:id/complete", h.Complete)
		v1.GET("/campaigns/:id/tier", h.CurrentTier)
	}
}

func tenantID(c *gin.Context) string {
	if v := c.GetHeader("X-Tenant-ID"); v != "" {
		return v
	}
	return c.Query("tenant_id")
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	if req.TenantID == "" {
		req.TenantID = tenantID(c)
	}

	out, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func (h *Handler) Get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) List(c *gin.Context) {
	var req ListCampaignRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(errutil.BadRequest("invalid query params", err))
		return
	}

	if req.TenantID == "" {
		req.TenantID = tenantID(c)
	}

	data, pageInfo, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": data, "page_info": pageInfo})
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	out, err := h.svc.Update(c.Request.Context(), tenantID(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) Activate(c *gin.Context) {
	out, err := h.svc.Activate(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) Complete(c *gin.Context) {
	out, err := h.svc.Complete(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) CurrentTier(c *gin.Context) {
	out, err := h.svc.CurrentTier(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}
