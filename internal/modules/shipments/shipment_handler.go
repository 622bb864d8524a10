package shipments

import (
	"net/http"
	"strconv"

	"auto-shipping/internal/models"
	"auto-shipping/pkg/utils"

	"github.com/labstack/echo/v4"
)

// Handler handles HTTP requests for shipments.
type Handler struct {
	svc ServiceInterface
}

// NewHandler creates a new shipment handler.
func NewHandler(svc ServiceInterface) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) CreateShipment(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	var req models.CreateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	shipment, err := h.svc.CreateShipment(c.Request().Context(), userID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusCreated, shipment)
}

func (h *Handler) ListMyShipments(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	page, limit := utils.GetPageLimit(c)
	shipments, total, err := h.svc.ListUserShipments(c.Request().Context(), userID, page, limit)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve shipments")
	}

	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"shipments": shipments, "total": total})
}

func (h *Handler) GetShipmentDetails(c echo.Context) error {
	userID, role, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid shipment ID")
	}

	shipment, err := h.svc.GetShipmentDetails(c.Request().Context(), shipmentID, userID, role)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, shipment)
}

func (h *Handler) CancelShipment(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid shipment ID")
	}

	if err := h.svc.CancelShipment(c.Request().Context(), shipmentID, userID); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SubmitFeedback(c echo.Context) error {
	userID, _, err := utils.ExtractUserInfo(c)
	if err != nil {
		return err
	}

	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid shipment ID")
	}

	var req models.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	if err := h.svc.SubmitFeedback(c.Request().Context(), userID, shipmentID, req); err != nil {
		return utils.HandleServiceError(c, err)
	}

	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) ListAllShipments(c echo.Context) error {
	page, limit := utils.GetPageLimit(c)
	shipments, total, err := h.svc.ListAllShipments(c.Request().Context(), page, limit)
	if err != nil {
		return utils.RespondWithError(c, http.StatusInternalServerError, "Failed to list all shipments")
	}
	return utils.RespondWithJSON(c, http.StatusOK, map[string]interface{}{"shipments": shipments, "total": total})
}

func (h *Handler) AdminUpdateShipment(c echo.Context) error {
	shipmentID, err := strconv.Atoi(c.Param("shipmentId"))
	if err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid shipment ID")
	}

	var req models.AdminUpdateShipmentRequest
	if err := c.Bind(&req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
	}
	if err := utils.GetValidator().Validate(req); err != nil {
		return utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	}

	shipment, err := h.svc.AdminUpdateShipment(c.Request().Context(), shipmentID, req)
	if err != nil {
		return utils.HandleServiceError(c, err)
	}

	return utils.RespondWithJSON(c, http.StatusOK, shipment)
}
