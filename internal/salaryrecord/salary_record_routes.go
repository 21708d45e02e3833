package salaryrecord

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authSecret string,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	records := r.Group("/salary-records")
	records.Use(middleware.AuthMiddleware(authSecret))
	records.Use(middleware.ContextLogger(logger))
	{
		records.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionRead),
			handler.GetAll,
		)

		records.GET("/export",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionExport),
			handler.Export,
		)

		records.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionRead),
			handler.GetByID,
		)

		generate := []gin.HandlerFunc{
			middleware.RateLimitByUser(0.1, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionGenerate),
		}
		if rdb != nil {
			generate = append(generate, middleware.ExtractUserID(), middleware.Idempotency(rdb))
		}
		records.POST("/generate", append(generate, handler.Generate)...)

		// preview is a pure calculation hit on every keystroke of the edit form
		records.POST("/preview",
			middleware.RateLimitByUser(10, 30),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionRead),
			handler.Preview,
		)

		records.PUT("/:id",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionUpdate),
			handler.Update,
		)

		records.PATCH("/:id/status",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, domain.ResourceSalaryRecord, domain.ActionUpdate),
			handler.UpdateStatus,
		)
	}

	summary := r.Group("/payroll/summary")
	summary.Use(middleware.AuthMiddleware(authSecret))
	summary.Use(middleware.ContextLogger(logger))
	{
		summary.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayrollSummary, domain.ActionRead),
			handler.Summary,
		)
		summary.GET("/shops",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourcePayrollSummary, domain.ActionRead),
			handler.SummaryByShop,
		)
	}
}
