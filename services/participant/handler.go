package participant

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
		v1.POST("/campaigns/:id/participants", h.Join)
		v1.GET("/campaigns/:id/participants", h.List)
		v1.GET("/participants/:id", h.Get)
		v1.POST("/participants/:id/interactions", h.RecordInteraction)
		v1.PUT("/participants/:id/posts", h.SyncPosts)
		v1.GET("/participants/:id/engagement", h.EngagementScore)
	}
}

func tenantID(c *gin.Context) string {
	if v := c.GetHeader("X-Tenant-ID"); v != "" {
		return v
	}
	return c.Query("tenant_id")
}

func (h *Handler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	if req.TenantID == "" {
		req.TenantID = tenantID(c)
	}

	out, err := h.svc.Join(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, out)
}

func (h *Handler) List(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) Get(c *gin.Context) {
	out, err := h.svc.Get(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) RecordInteraction(c *gin.Context) {
	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	out, err := h.svc.RecordInteraction(c.Request.Context(), tenantID(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *Handler) SyncPosts(c *gin.Context) {
	var req SyncPostsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errutil.BadRequest("invalid request body", err))
		return
	}

	out, err := h.svc.SyncPosts(c.Request.Context(), tenantID(c), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Handler) EngagementScore(c *gin.Context) {
	out, err := h.svc.EngagementScore(c.Request.Context(), tenantID(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, out)
}
