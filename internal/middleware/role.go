package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/branch-queue/internal/httperr"
	"github.com/BruksfildServices01/branch-queue/internal/models"
)

// FreshRole replaces the role claim of the token with the role stored for the
// user, so a promotion or demotion applies without a new login. It must run
// after AuthMiddleware.
func FreshRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		err := db.WithContext(c.Request.Context()).
			Select("id", "role").
			First(&user, c.GetUint(ContextUserID)).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error_code": "user_not_found"})
			return
		}
		if err != nil {
			httperr.FromError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}
