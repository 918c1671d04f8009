// internal/handlers/admin/admin_handler.go

// Package admin serves the elevated review console: vendor approvals,
// product approvals and the login audit log. Every route here sits
// behind the unlock check on top of owner role.
package admin

import (
	"net/http"
	"strconv"

	"stockpilot-service/internal/domain/vendor"
	"stockpilot-service/internal/middleware"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/response"
	vendorsvc "stockpilot-service/internal/service/vendor"

	"stockpilot-service/internal/repository/postgres"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	vendorService *vendorsvc.Service
	auditRepo     *postgres.AuditRepository
	logger        *zap.Logger
}

func NewAdminHandler(vendorService *vendorsvc.Service, auditRepo *postgres.AuditRepository, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		vendorService: vendorService,
		auditRepo:     auditRepo,
		logger:        logger,
	}
}

// ========== Vendor review ==========

// PendingVendors lists registrations awaiting review
func (h *AdminHandler) PendingVendors(c *gin.Context) {
	vendors, err := h.vendorService.PendingVendors(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list pending vendors", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"vendors": vendors})
}

// ApproveVendor approves a pending registration
func (h *AdminHandler) ApproveVendor(c *gin.Context) {
	h.reviewVendor(c, vendor.StatusApproved)
}

// RejectVendor rejects a pending registration
func (h *AdminHandler) RejectVendor(c *gin.Context) {
	h.reviewVendor(c, vendor.StatusRejected)
}

func (h *AdminHandler) reviewVendor(c *gin.Context, status vendor.ReviewStatus) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid vendor id", err)
		return
	}

	var req vendor.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sess := middleware.MustGetSession(c)

	v, err := h.vendorService.ReviewVendor(c.Request.Context(), id, status, req.Notes, sess.Username)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "no pending vendor with that id")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to review vendor", err)
		return
	}

	response.Success(c, http.StatusOK, "vendor "+string(status), v)
}

// ========== Product review ==========

// PendingProducts lists catalogue submissions awaiting review
func (h *AdminHandler) PendingProducts(c *gin.Context) {
	products, err := h.vendorService.PendingProducts(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list pending products", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"products": products})
}

// ApproveProduct approves a pending submission
func (h *AdminHandler) ApproveProduct(c *gin.Context) {
	h.reviewProduct(c, vendor.StatusApproved)
}

// RejectProduct rejects a pending submission
func (h *AdminHandler) RejectProduct(c *gin.Context) {
	h.reviewProduct(c, vendor.StatusRejected)
}

func (h *AdminHandler) reviewProduct(c *gin.Context, status vendor.ReviewStatus) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product id", err)
		return
	}

	var req vendor.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	sess := middleware.MustGetSession(c)

	p, err := h.vendorService.ReviewProduct(c.Request.Context(), id, status, req.Notes, sess.Username)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "no pending product with that id")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to review product", err)
		return
	}

	response.Success(c, http.StatusOK, "product "+string(status), p)
}

// ========== Audit ==========

// LoginLogs returns recent authentications, newest first
func (h *AdminHandler) LoginLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	logs, err := h.auditRepo.ListLoginLogs(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list login logs", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"logs": logs})
}
