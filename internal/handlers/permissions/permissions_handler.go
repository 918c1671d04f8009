// internal/handlers/permissions/permissions_handler.go
package permissions

import (
	"net/http"
	"strconv"

	"stockpilot-service/internal/middleware"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/response"
	permsvc "stockpilot-service/internal/service/permissions"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PermissionsHandler struct {
	permService *permsvc.Service
	logger      *zap.Logger
}

func NewPermissionsHandler(permService *permsvc.Service, logger *zap.Logger) *PermissionsHandler {
	return &PermissionsHandler{permService: permService, logger: logger}
}

// Check evaluates one permission key against the caller's session
func (h *PermissionsHandler) Check(c *gin.Context) {
	var req struct {
		PermissionKey string `json:"permission_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	held := middleware.GetPermissions(c)

	response.Success(c, http.StatusOK, "ok", gin.H{
		"permission_key": req.PermissionKey,
		"has_permission": h.permService.Check(held, req.PermissionKey),
	})
}

// CheckMultiple evaluates several keys in one round trip
func (h *PermissionsHandler) CheckMultiple(c *gin.Context) {
	var req struct {
		PermissionKeys []string `json:"permission_keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	held := middleware.GetPermissions(c)

	response.Success(c, http.StatusOK, "ok", gin.H{
		"results": h.permService.CheckMultiple(held, req.PermissionKeys),
	})
}

// Catalogue lists every grantable permission (MD only)
func (h *PermissionsHandler) Catalogue(c *gin.Context) {
	perms, err := h.permService.Catalogue(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list permissions", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"permissions": perms})
}

// EmployeeGrants lists the keys granted to one employee (MD only)
func (h *PermissionsHandler) EmployeeGrants(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("employee_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid employee id", err)
		return
	}

	keys, codes, err := h.permService.GrantsFor(c.Request.Context(), employeeID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list granted permissions", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{
		"employee_id":      employeeID,
		"permissions":      keys,
		"permission_codes": codes,
	})
}

// Grant assigns a permission key to an employee (MD only)
func (h *PermissionsHandler) Grant(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("employee_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid employee id", err)
		return
	}

	var req struct {
		PermissionKey string `json:"permission_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	grantedBy := middleware.MustGetUserID(c)

	if err := h.permService.Grant(c.Request.Context(), employeeID, req.PermissionKey, grantedBy); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "unknown permission key")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to grant permission", err)
		return
	}

	response.Success(c, http.StatusOK, "permission granted", nil)
}

// Revoke removes a permission key from an employee (MD only)
func (h *PermissionsHandler) Revoke(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Param("employee_id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid employee id", err)
		return
	}

	var req struct {
		PermissionKey string `json:"permission_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	revokedBy := middleware.MustGetUserID(c)

	if err := h.permService.Revoke(c.Request.Context(), employeeID, req.PermissionKey, revokedBy); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "permission grant not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to revoke permission", err)
		return
	}

	response.Success(c, http.StatusOK, "permission revoked", nil)
}
