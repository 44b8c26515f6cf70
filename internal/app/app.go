package app

import (
	"database/sql"
	"fmt"

	"go-hris-payroll/internal/config"
	"go-hris-payroll/internal/database"
	"go-hris-payroll/internal/middleware"
	"go-hris-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const connectRetries = 5

// BuildApp connects infrastructure, migrates the schema and mounts every
// module on router. The returned cleanup closes the connections.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L().Named("app")

	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("database schema up to date")

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, connectRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(zap.L()),
	)

	if err := registerModules(router, sqlDB, gormDB, rdb, cfg); err != nil {
		_ = rdb.Close()
		_ = sqlDB.Close()
		return nil, err
	}

	cleanup := func() {
		_ = rdb.Close()
		_ = sqlDB.Close()
	}
	return cleanup, nil
}

func openDatabase(cfg *config.Config) (*gorm.DB, *sql.DB, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.Postgres, connectRetries)
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("get sql.DB: %w", err)
	}
	return gormDB, sqlDB, nil
}
