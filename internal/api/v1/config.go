package v1

import (
	"net/http"

	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/service"
	"github.com/gin-gonic/gin"
)

type ConfigHandler struct {
	service service.AccountService
	log     *logger.Logger
}

func NewConfigHandler(service service.AccountService, log *logger.Logger) *ConfigHandler {
	return &ConfigHandler{service: service, log: log}
}

// @Summary Storefront configuration
// @Description Connected accounts, publishable key and unit price used by the checkout page
// @Tags Config
// @Produce json
// @Success 200 {object} dto.ConfigResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /config [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	resp, err := h.service.GetConfig(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
