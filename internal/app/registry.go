package app

import (
	"database/sql"

	"go-payroll/internal/auth"
	"go-payroll/internal/config"
	"go-payroll/internal/employee"
	"go-payroll/internal/leaveentry"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/salaryrecord"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shop"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveEntryRepo := leaveentry.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	salaryRecordRepo := salaryrecord.NewRepository(gormDB)
	shopRepo := shop.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(nil)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, cfg.Auth, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb, logger)
	leaveEntryService := leaveentry.NewService(db, leaveEntryRepo, salaryRecordRepo, rdb, logger)
	salaryRecordService := salaryrecord.NewServiceWithOutbox(db, salaryRecordRepo, outboxRepo, rdb, logger)
	shopService := shop.NewService(db, shopRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, auth.CookieOptions{
		Secure:     cfg.App.IsProduction(),
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	}, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveEntryHandler := leaveentry.NewHandler(leaveEntryService, logger)
	rbacHandler := rbac.NewHandler(rbacService)
	salaryRecordHandler := salaryrecord.NewHandlerWithRedis(salaryRecordService, rdb, logger)
	shopHandler := shop.NewHandler(shopService, logger)

	// --- Routes Registration ---
	secret := cfg.Auth.JWTSecret
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, secret)
		shop.RegisterRoutes(api, shopHandler, rbacService, secret, logger)
		employee.RegisterRoutes(api, employeeHandler, rbacService, secret, logger)
		salaryrecord.RegisterRoutes(api, salaryRecordHandler, rbacService, secret, rdb, logger)
		leaveentry.RegisterRoutes(api, leaveEntryHandler, rbacService, secret, logger)
		rbac.RegisterRoutes(api, rbacHandler, secret)
	}

	return nil
}
