package v1

import (
	"net/http"

	"github.com/flexprice/connectcheckout/internal/api/dto"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type DashboardHandler struct {
	service service.AccountService
	log     *logger.Logger
}

func NewDashboardHandler(service service.AccountService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

// @Summary Express dashboard link
// @Description Returns the dashboard url as JSON to API clients. Browser navigation (Accept: text/html) is redirected.
// @Tags Accounts
// @Produce json
// @Param account_id query string true "Connected account ID"
// @Success 200 {object} dto.DashboardLinkResponse
// @Success 303
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /express-dashboard-link [get]
func (h *DashboardHandler) GetDashboardLink(c *gin.Context) {
	var req dto.DashboardLinkRequest
	// validation happens in the service so a missing id gets a readable message
	_ = c.ShouldBindQuery(&req)

	resp, err := h.service.CreateDashboardLink(c.Request.Context(), req.AccountID)
	if err != nil {
		c.Error(err)
		return
	}

	if c.ContentType() == binding.MIMEJSON || c.NegotiateFormat(binding.MIMEJSON, binding.MIMEHTML) == binding.MIMEJSON {
		c.JSON(http.StatusOK, resp)
		return
	}

	c.Redirect(http.StatusSeeOther, resp.URL)
}
