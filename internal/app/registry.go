package app

import (
	"database/sql"
	"net/http"

	"go-hris-payroll/internal/audit"
	"go-hris-payroll/internal/config"
	"go-hris-payroll/internal/currency"
	"go-hris-payroll/internal/employee"
	"go-hris-payroll/internal/messaging/kafka"
	"go-hris-payroll/internal/payroll"
	"go-hris-payroll/internal/rbac"
	"go-hris-payroll/internal/shared/response"
	"go-hris-payroll/internal/taxbracket"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Authorization ---
	authorizer, err := rbac.FromMode(cfg.Auth.AuthzMode, cfg.Auth.RBACModelPath, cfg.Auth.RBACPolicyPath)
	if err != nil {
		return err
	}

	// --- Services ---
	payrollService := newPayrollService(db, gormDB, rdb, cfg)

	// --- Handlers ---
	payrollHandler := payroll.NewHandler(payrollService)

	// --- Routes Registration ---
	router.GET("/healthz", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"}, nil)
	})

	api := router.Group("/api/v1")
	{
		payroll.RegisterRoutes(api, payrollHandler, payroll.RouteConfig{
			JWTSecret:  cfg.Auth.JWTSecret,
			Authorizer: authorizer,
			Redis:      rdb,
		})
	}

	return nil
}

// newPayrollService wires the payroll engine with its collaborators. The
// API and the bulk consumer share it.
func newPayrollService(
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) payroll.Service {
	opts := []payroll.Option{
		payroll.WithOutbox(kafka.NewOutboxRepository(db)),
		payroll.WithLogger(zap.L()),
		payroll.WithAudit(audit.NewZapLogger(zap.L())),
		payroll.WithDefaultTaxCountry(cfg.Payroll.DefaultTaxCountry),
		payroll.WithBulkConcurrency(cfg.Payroll.BulkConcurrency),
	}
	if rdb != nil {
		opts = append(opts, payroll.WithRedis(rdb))
	}

	return payroll.NewService(
		db,
		payroll.NewRepository(gormDB),
		employee.NewRepository(gormDB),
		currency.NewRepository(gormDB),
		taxbracket.NewRepository(gormDB),
		opts...,
	)
}
