package shop

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
	shops := r.Group("/shops")
	shops.Use(middleware.AuthMiddleware(authSecret))
	shops.Use(middleware.ContextLogger(logger))
	{
		shops.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, domain.ResourceShop, domain.ActionRead),
			handler.GetAll,
		)

		shops.GET("/:id",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, domain.ResourceShop, domain.ActionRead),
			handler.GetByID,
		)

		shops.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceShop, domain.ActionCreate),
			handler.Create,
		)

		shops.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, domain.ResourceShop, domain.ActionUpdate),
			handler.Update,
		)
	}
}
