// internal/handlers/navigation/navigation_handler.go
package navigation

import (
	"net/http"

	"stockpilot-service/internal/access"
	"stockpilot-service/internal/middleware"
	"stockpilot-service/internal/pkg/response"
	navsvc "stockpilot-service/internal/service/navigation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NavigationHandler struct {
	navService *navsvc.Service
	logger     *zap.Logger
}

func NewNavigationHandler(navService *navsvc.Service, logger *zap.Logger) *NavigationHandler {
	return &NavigationHandler{navService: navService, logger: logger}
}

// Menu returns the full menu annotated with the viewer's access
func (h *NavigationHandler) Menu(c *gin.Context) {
	sess := middleware.MustGetSession(c)

	menu, err := h.navService.Menu(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to build menu", err)
		return
	}

	response.Success(c, http.StatusOK, "ok", gin.H{"menu": menu})
}

// Resolve answers what to render for a requested page id. The decision
// itself always succeeds; denials and lock screens are decisions, not
// errors, so the client renders them from a 200.
func (h *NavigationHandler) Resolve(c *gin.Context) {
	sess := middleware.MustGetSession(c)
	pageID := c.Param("page")

	decision, err := h.navService.Resolve(c.Request.Context(), sess, pageID)
	if err != nil {
		response.TransientNotice(c, "navigation temporarily unavailable", err)
		return
	}

	switch decision.Outcome {
	case access.RenderDenied:
		response.Denied(c, decision.PageID)
	case access.RenderLocked:
		response.Locked(c, "Subscription locked. Upgrade to continue.", middleware.IsMD(c))
	default:
		response.Success(c, http.StatusOK, "ok", decision)
	}
}
