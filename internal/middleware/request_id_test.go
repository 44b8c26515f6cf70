package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hris-payroll/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_PropagatesHeader(t *testing.T) {
	var seen string
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) {
		seen = contextutil.GetRequestID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-7")
	w := serve(r, req)

	assert.Equal(t, "req-7", seen)
	assert.Equal(t, "req-7", w.Header().Get(RequestIDHeader))
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))

	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestContextLogger_AddsRequestFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	r.GET("/payrolls/:id", RequestID(), ContextLogger(zap.New(core)), func(c *gin.Context) {
		contextutil.GetLogger(c.Request.Context(), zap.NewNop()).Info("handled")
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/payrolls/9", nil)
	req.Header.Set(RequestIDHeader, "req-9")
	serve(r, req)

	handled := logs.FilterMessage("handled").All()
	if assert.Len(t, handled, 1) {
		fields := handled[0].ContextMap()
		assert.Equal(t, "req-9", fields["request_id"])
		assert.Equal(t, "GET", fields["method"])
		assert.Equal(t, "/payrolls/:id", fields["path"])
	}
	assert.Equal(t, 1, logs.FilterMessage("request completed").Len())
}
