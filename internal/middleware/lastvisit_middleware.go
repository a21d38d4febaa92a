// internal/middleware/lastvisit_middleware.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prorata-service/internal/service/auth"
)

// LastVisitMiddleware records the visit time for authenticated requests.
// MUST be used after Auth(); recording is best effort and never fails the
// request.
func LastVisitMiddleware(authService *auth.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if accountID, ok := GetAccountID(c); ok {
			if err := authService.RecordVisit(c.Request.Context(), accountID); err != nil {
				logger.Debug("failed to record visit", zap.Error(err))
			}
		}
		c.Next()
	}
}
