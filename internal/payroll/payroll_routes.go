package payroll

import (
	"go-hris-payroll/internal/middleware"
	"go-hris-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type RouteConfig struct {
	JWTSecret  string
	Authorizer middleware.Authorizer
	Redis      *redis.Client
	// BulkRate and BulkBurst throttle bulk endpoints per user.
	BulkRate  rate.Limit
	BulkBurst int
}

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, cfg RouteConfig) {
	authz := func(action string) gin.HandlerFunc {
		return middleware.RBACAuthorize(cfg.Authorizer, rbac.ResourcePayroll, action)
	}

	bulkRate, bulkBurst := cfg.BulkRate, cfg.BulkBurst
	if bulkRate == 0 {
		bulkRate = rate.Limit(1)
	}
	if bulkBurst == 0 {
		bulkBurst = 3
	}
	bulkLimit := middleware.RateLimitByUser(bulkRate, bulkBurst)

	payrolls := r.Group("/payrolls")
	payrolls.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.ExtractUserID())

	// writes run authz, then idempotency replay, then the handler chain
	writes := func(action string, handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{authz(action)}
		if cfg.Redis != nil {
			chain = append(chain, middleware.Idempotency(cfg.Redis))
		}
		return append(chain, handlers...)
	}

	{
		payrolls.GET("", authz(rbac.ActionRead), handler.GetAll)
		payrolls.GET("/summary", authz(rbac.ActionSummary), handler.GetSummary)
		payrolls.GET("/:id", authz(rbac.ActionRead), handler.GetByID)
		payrolls.GET("/:id/payslip", authz(rbac.ActionRead), handler.DownloadPayslip)

		payrolls.POST("", writes(rbac.ActionCreate, handler.Create)...)
		payrolls.POST("/bulk", writes(rbac.ActionCreate, bulkLimit, handler.GenerateBulk)...)
		payrolls.POST("/bulk/async", writes(rbac.ActionCreate, bulkLimit, handler.RequestBulk)...)
		payrolls.POST("/:id/finalize", authz(rbac.ActionFinalize), handler.Finalize)
		payrolls.DELETE("/:id", authz(rbac.ActionDelete), handler.Delete)
	}
}
