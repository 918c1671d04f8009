// internal/handlers/billing/billing_handler.go
package billing

import (
	"net/http"

	"stockpilot-service/internal/middleware"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/response"
	subsvc "stockpilot-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BillingHandler struct {
	subService *subsvc.Service
	logger     *zap.Logger
}

func NewBillingHandler(subService *subsvc.Service, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{subService: subService, logger: logger}
}

// Status returns the subscription snapshot plus the gate's verdict
func (h *BillingHandler) Status(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	status, err := h.subService.Status(c.Request.Context(), userID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrFetchFailed) {
			response.TransientNotice(c, "billing status temporarily unavailable", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to load subscription status", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", status)
}

// Plans returns display pricing for the upgrade flow
func (h *BillingHandler) Plans(c *gin.Context) {
	response.Success(c, http.StatusOK, "ok", gin.H{
		"plans": h.subService.Plans(),
	})
}

// Verify confirms a charge and activates the pro plan (MD only)
func (h *BillingHandler) Verify(c *gin.Context) {
	userID := middleware.MustGetUserID(c)
	reference := c.Param("reference")

	result, err := h.subService.VerifyPayment(c.Request.Context(), userID, reference)
	if err != nil {
		switch {
		case xerrors.Is(err, xerrors.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "malformed payment reference", nil)
		case xerrors.Is(err, xerrors.ErrUnauthorized):
			response.Forbidden(c, "payment reference doesn't match user")
		case xerrors.Is(err, xerrors.ErrFetchFailed):
			response.TransientNotice(c, "payment provider unreachable, try again shortly", err)
		default:
			h.logger.Error("payment verification failed",
				zap.Int64("user_id", userID),
				zap.String("reference", reference),
				zap.Error(err),
			)
			response.Error(c, http.StatusInternalServerError, "payment verification failed", err)
		}
		return
	}

	if !result.Verified {
		response.Error(c, http.StatusBadRequest, result.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, result.Message, result)
}
