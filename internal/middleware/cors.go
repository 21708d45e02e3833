package middleware

import (
	"time"

	"go-payroll/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	corsCfg.AddAllowHeaders("Authorization", "Idempotency-Key", HeaderRequestID)
	corsCfg.AddExposeHeaders(HeaderRequestID, "Content-Disposition")
	corsCfg.AllowCredentials = cfg.AllowCredentials
	corsCfg.MaxAge = 12 * time.Hour

	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	return cors.New(corsCfg)
}
