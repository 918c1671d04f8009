// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"stockpilot-service/internal/domain/auth"
	"stockpilot-service/internal/middleware"
	xerrors "stockpilot-service/internal/pkg/errors"
	"stockpilot-service/internal/pkg/response"
	authUsecase "stockpilot-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Login ==========

// Login handles owner login (public endpoint)
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrRateLimited) {
			response.Error(c, http.StatusTooManyRequests, "too many login attempts, try again later", nil)
			return
		}
		h.logger.Warn("login failed",
			zap.String("username", req.Username),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// EmployeeLogin handles staff login (public endpoint)
func (h *AuthHandler) EmployeeLogin(c *gin.Context) {
	var req auth.EmployeeLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.EmployeeLogin(c.Request.Context(), &req)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrRateLimited) {
			response.Error(c, http.StatusTooManyRequests, "too many login attempts, try again later", nil)
			return
		}
		h.logger.Warn("employee login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
		return
	}

	response.Success(c, http.StatusOK, "login successful", loginResp)
}

// ========== Session ==========

// Me returns the current identity including elevation state
func (h *AuthHandler) Me(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	me, err := h.authService.Me(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to load identity", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", me)
}

// Employees lists the tenant's staff logins (MD only)
func (h *AuthHandler) Employees(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	employees, err := h.authService.Employees(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list employees", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"employees": employees})
}

// Renew issues a fresh token for a live session
func (h *AuthHandler) Renew(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	loginResp, err := h.authService.Renew(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to renew session", err)
		return
	}

	response.Success(c, http.StatusOK, "session renewed", loginResp)
}

// Logout tears the session down
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	if err := h.authService.Logout(c.Request.Context(), sess); err != nil {
		h.logger.Error("logout failed",
			zap.Int64("user_id", sess.UserID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// LogoutAll revokes every session of the tenant
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	if err := h.authService.LogoutAll(c.Request.Context(), sess); err != nil {
		h.logger.Error("logout-all failed",
			zap.Int64("user_id", sess.UserID),
			zap.Error(err),
		)
		response.Error(c, http.StatusInternalServerError, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "all sessions logged out", nil)
}

// Activity is the HTTP activity ping; it restarts the inactivity
// countdown and stamps the session
func (h *AuthHandler) Activity(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	if err := h.authService.RecordActivity(c.Request.Context(), sess.UserID, sess.JTI); err != nil {
		if xerrors.Is(err, xerrors.ErrAuthExpired) {
			response.Error(c, http.StatusUnauthorized, "session expired, please log in again", nil, gin.H{
				"view":   "login",
				"reason": "auth_expired",
			})
			return
		}
		response.Error(c, http.StatusInternalServerError, "failed to record activity", err)
		return
	}

	response.Success(c, http.StatusOK, "activity recorded", nil)
}

// ========== Admin unlock ==========

// Unlock elevates an owner session after the unlock gesture (MD only)
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req auth.UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	userID := middleware.MustGetUserID(c)

	if err := h.authService.AdminUnlock(c.Request.Context(), userID, req.Marker); err != nil {
		if xerrors.Is(err, xerrors.ErrForbidden) {
			response.Forbidden(c, "unlock rejected")
			return
		}
		response.Error(c, http.StatusInternalServerError, "unlock failed", err)
		return
	}

	response.Success(c, http.StatusOK, "admin console unlocked", gin.H{
		"admin_unlocked": true,
	})
}

// Lock drops elevation immediately (MD only)
func (h *AuthHandler) Lock(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	if err := h.authService.AdminLock(c.Request.Context(), userID); err != nil {
		response.Error(c, http.StatusInternalServerError, "lock failed", err)
		return
	}

	response.Success(c, http.StatusOK, "admin console locked", gin.H{
		"admin_unlocked": false,
	})
}
