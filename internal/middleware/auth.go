package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"postify/internal/models"
)

const CheckUserKey = "user"

const SessionUserID = "user_id"

// AuthRequired rejects unauthenticated requests. The error code is distinct
// so the client's global interceptor can redirect to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		_, loaded := c.Get(CheckUserKey)
		if session.Get(SessionUserID) == nil || !loaded {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "not-authenticated",
			})
			return
		}

		c.Next()
	}
}

// LoadUser retrieves the session user and sets it on the request context.
// A stale session pointing at a deleted user is treated as logged out.
func LoadUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserID)

		if userID != nil {
			var user models.User
			if err := db.First(&user, userID).Error; err == nil {
				c.Set(CheckUserKey, &user)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the loaded session user, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
