package middleware

import (
	autherrors "go-payroll/internal/auth/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextValidatedUserID holds the caller id once ExtractUserID has checked it
// is a well formed uuid. Idempotency keys are scoped by it.
const ContextValidatedUserID = "user_id_validated"

func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetString(ContextUserID)
		if raw == "" {
			abortWith(c, autherrors.ErrTokenNotFound)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			abortWith(c, autherrors.ErrInvalidToken)
			return
		}

		c.Set(ContextValidatedUserID, id.String())
		c.Next()
	}
}
