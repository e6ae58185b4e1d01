package v1

import (
	"net/http"

	"github.com/flexprice/connectcheckout/internal/api/dto"
	ierr "github.com/flexprice/connectcheckout/internal/errors"
	"github.com/flexprice/connectcheckout/internal/logger"
	"github.com/flexprice/connectcheckout/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type CheckoutHandler struct {
	service service.CheckoutService
	log     *logger.Logger
}

func NewCheckoutHandler(service service.CheckoutService, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{service: service, log: log}
}

// @Summary Create a checkout session
// @Description Creates a hosted checkout session on the connected account with the platform fee applied.
// @Description Form posts are redirected to the hosted page; JSON requests receive the session id and url.
// @Tags Checkout
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param request body dto.CreateCheckoutSessionRequest true "Order"
// @Success 200 {object} dto.CreateCheckoutSessionResponse
// @Success 303
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /create-checkout-session [post]
func (h *CheckoutHandler) CreateCheckoutSession(c *gin.Context) {
	var req dto.CreateCheckoutSessionRequest

	isJSON := c.ContentType() == binding.MIMEJSON
	var err error
	if isJSON {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindWith(&req, binding.Form)
	}
	if err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Please check the request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateCheckoutSession(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	if !isJSON {
		c.Redirect(http.StatusSeeOther, resp.URL)
		return
	}

	c.JSON(http.StatusOK, resp)
}
