package pricing

import (
	"net/http"

	"auto-shipping/internal/models"
	"auto-shipping/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for quotes and pricing configuration.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new pricing handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

// Quote handles POST /pricing/quote.
func (h *Handler) Quote(c echo.Context) error {
	var req models.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	quote, err := h.svc.Quote(c.Request().Context(), req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, quote)
}

// ListRates handles GET /admin/pricing/rates.
func (h *Handler) ListRates(c echo.Context) error {
	rates, err := h.svc.ListRates(c.Request().Context())
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list pricing rates")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"rates": rates})
}

// UpdateRate handles PUT /admin/pricing/rates/:vehicleType.
func (h *Handler) UpdateRate(c echo.Context) error {
	vehicleType := c.Param("vehicleType")
	if vehicleType == "" {
		return utils.RespondWithError(c, http.StatusBadRequest, "Missing vehicle type")
	}

	var req models.UpdatePricingRateRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	rate, err := h.svc.UpdateRate(c.Request().Context(), vehicleType, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, rate)
}
