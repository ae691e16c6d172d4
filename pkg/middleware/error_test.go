package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"rewardplane/pkg/errutil"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Error())
	return r
}

func TestError_BaseError(t *testing.T) {
	r := newTestRouter()
	r.GET("/missing", func(c *gin.Context) {
		c.Error(errutil.NotFound("campaign not found", nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "not_found")
	require.Contains(t, w.Body.String(), "campaign not found")
}

func TestError_ValidationStatus(t *testing.T) {
	r := newTestRouter()
	r.GET("/invalid", func(c *gin.Context) {
		c.Error(errutil.UnprocessableEntity("invalid algorithm config", nil))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invalid", nil))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestError_PlainError(t *testing.T) {
	r := newTestRouter()
	r.GET("/boom", func(c *gin.Context) {
		c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestError_NoError(t *testing.T) {
	r := newTestRouter()
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
}
