package middleware

import "github.com/gin-gonic/gin"

const currentUserKey = "current_user_id"

// CurrentUser injects the configured user identity into every request.
// There is no credential flow; the whole app acts as this single user.
func CurrentUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(currentUserKey, userID)
		c.Next()
	}
}

// GetCurrentUserID returns the identity set by CurrentUser.
func GetCurrentUserID(c *gin.Context) string {
	if v, exists := c.Get(currentUserKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
