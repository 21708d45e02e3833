package leaveentry

import (
	"go-payroll/internal/domain"
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authSecret string,
	logger *zap.Logger,
) {
	entries := r.Group("/salary-records/:id/leave-entries")
	entries.Use(middleware.AuthMiddleware(authSecret))
	entries.Use(middleware.ContextLogger(logger))
	{
		entries.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceLeaveEntry, domain.ActionRead),
			handler.List,
		)

		entries.POST("",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceLeaveEntry, domain.ActionCreate),
			handler.Create,
		)

		entries.DELETE("/:entryId",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, domain.ResourceLeaveEntry, domain.ActionDelete),
			handler.Delete,
		)
	}
}
