package app

import (
	"net/http"

	"go-payroll/internal/config"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned cleanup closes the connections it opened.
func BuildApp(router *gin.Engine, cfg *config.Config) (func(), error) {
	logger := zap.L()

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg.CORS))

	router.GET("/healthz", func(c *gin.Context) {
		if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if err := registerModules(router, cfg, sqlDB, gormDB, rdb, logger); err != nil {
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
