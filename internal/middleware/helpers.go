// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetAccountID gets the authenticated account ID from context
func GetAccountID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetAccountID gets the account ID from context or panics
func MustGetAccountID(c *gin.Context) int64 {
	id, exists := GetAccountID(c)
	if !exists {
		panic("account_id not found in context")
	}
	return id
}

// MustGetSessionID gets the session ID from context or panics
func MustGetSessionID(c *gin.Context) string {
	v, exists := c.Get("session_id")
	if !exists {
		panic("session_id not found in context")
	}
	id, ok := v.(string)
	if !ok {
		panic("session_id has unexpected type")
	}
	return id
}

// GetRoles gets the account roles from context
func GetRoles(c *gin.Context) []string {
	v, exists := c.Get("roles")
	if !exists {
		return []string{}
	}

	roles, ok := v.([]string)
	if !ok {
		return []string{}
	}

	return roles
}

// HasRole checks whether the authenticated account has a role
func HasRole(c *gin.Context, role string) bool {
	for _, r := range GetRoles(c) {
		if r == role {
			return true
		}
	}
	return false
}

// IsAuthenticated checks if request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	_, exists := c.Get("account_id")
	return exists
}
