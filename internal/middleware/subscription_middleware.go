// internal/middleware/subscription_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/metrics"
	"stockpilot-service/internal/pkg/response"
	subsvc "stockpilot-service/internal/service/subscription"
)

// SubscriptionGate blocks a route while the tenant's usage envelope is
// locked. The dashboard, billing and auth surfaces never sit behind it:
// a locked-out owner must still be able to see status and pay.
// MUST be used after Auth()
func SubscriptionGate(subs *subsvc.Service, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := MustGetUserID(c)

		gate, err := subs.Gate(c.Request.Context(), userID)
		if err != nil {
			if xerrors.Is(err, xerrors.ErrFetchFailed) {
				// transient failure keeps the last known state; we do not
				// lock anyone out because billing was unreachable
				logger.Warn("subscription check unavailable",
					zap.Int64("user_id", userID), zap.Error(err))
				c.Next()
				return
			}
			response.Error(c, http.StatusInternalServerError, "failed to check subscription", err)
			return
		}

		if gate.Locked {
			metrics.SubscriptionLocked.Inc()
			response.Locked(c, gate.Message, IsMD(c))
			return
		}

		c.Next()
	}
}
