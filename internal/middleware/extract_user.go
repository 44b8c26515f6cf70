package middleware

import (
	"go-hris-payroll/internal/shared/apperror"
	"go-hris-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractUserID requires the authenticated user id to be a UUID and stores
// it as user_id_validated. Actor ids recorded on payrolls come from here.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.FromError(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			response.FromError(c, apperror.Reason(apperror.ErrUnauthorized, "Invalid user id format"))
			c.Abort()
			return
		}

		c.Set("user_id_validated", userID)
		c.Next()
	}
}
