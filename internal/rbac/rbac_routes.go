package rbac

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r gin.IRouter, handler *Handler, authSecret string) {
	group := r.Group("/rbac", middleware.AuthMiddleware(authSecret))
	{
		group.GET("/permissions", handler.Permissions)
		group.POST("/check", handler.Check)
	}
}
