// internal/middleware/helpers.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"stockpilot-service/internal/pkg/jwt"
	"stockpilot-service/internal/pkg/session"
)

// GetUserID gets the tenant id from context
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}

	id, ok := userID.(int64)
	return id, ok
}

// MustGetUserID gets the tenant id from context or panics
func MustGetUserID(c *gin.Context) int64 {
	id, exists := GetUserID(c)
	if !exists {
		panic("user_id not found in context")
	}
	return id
}

// GetJTI gets the token id from context
func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get("jti")
	if !exists {
		return "", false
	}

	jtiStr, ok := jti.(string)
	return jtiStr, ok
}

// MustGetJTI gets the token id from context or panics
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetSession gets the live session record from context
func GetSession(c *gin.Context) (*session.Data, bool) {
	v, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sess, ok := v.(*session.Data)
	return sess, ok
}

// MustGetSession gets the session record from context or panics
func MustGetSession(c *gin.Context) *session.Data {
	sess, exists := GetSession(c)
	if !exists {
		panic("session not found in context")
	}
	return sess
}

// GetPermissions gets permission keys from context
func GetPermissions(c *gin.Context) []string {
	permissions, exists := c.Get("permissions")
	if !exists {
		return []string{}
	}

	permissionsList, ok := permissions.([]string)
	if !ok {
		return []string{}
	}

	return permissionsList
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("user_id")
	return exists
}

// IsMD checks if the caller is the account owner
func IsMD(c *gin.Context) bool {
	return c.GetString("role") == jwt.RoleMD
}
