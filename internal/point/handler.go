package point

import (
	"net/http"
	"strconv"

	"pointledger/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type AmountRequest struct {
	Amount int64 `json:"amount"`
}

// pathParams carries the structural bits of a request. Amount is left
// to the domain validator so rejection messages stay consistent.
type pathParams struct {
	UserID int64 `validate:"gt=0"`
}

// @Summary      Get a user's point balance
// @Tags         point
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} point.UserPoint
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /point/{id} [get]
func (h *Handler) GetPoint(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	up, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, up)
}

// @Summary      Get a user's transaction history
// @Tags         point
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {array} point.PointHistory
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /point/{id}/histories [get]
func (h *Handler) GetHistories(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	histories, err := h.service.GetHistory(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, histories)
}

// @Summary      Charge points
// @Tags         point
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Param        request body point.AmountRequest true "Amount to charge"
// @Success      200 {object} point.UserPoint
// @Failure      400 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /point/{id}/charge [patch]
func (h *Handler) Charge(c *gin.Context) {
	userID, amount, ok := h.mutationParams(c)
	if !ok {
		return
	}

	up, err := h.service.Charge(c.Request.Context(), userID, amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, up)
}

// @Summary      Use points
// @Tags         point
// @Accept       json
// @Produce      json
// @Param        id path int true "User ID"
// @Param        request body point.AmountRequest true "Amount to use"
// @Success      200 {object} point.UserPoint
// @Failure      400 {object} api.ErrorResponse
// @Failure      503 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /point/{id}/use [patch]
func (h *Handler) Use(c *gin.Context) {
	userID, amount, ok := h.mutationParams(c)
	if !ok {
		return
	}

	up, err := h.service.Use(c.Request.Context(), userID, amount)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, up)
}

func (h *Handler) userID(c *gin.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "id must be an integer"})
		return 0, false
	}

	if errs := api.ValidateStruct(pathParams{UserID: userID}); len(errs) > 0 {
		api.RespondWithValidationErrors(c, errs)
		return 0, false
	}

	return userID, true
}

func (h *Handler) mutationParams(c *gin.Context) (int64, int64, bool) {
	userID, ok := h.userID(c)
	if !ok {
		return 0, 0, false
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "request body must be JSON with an integer amount"})
		return 0, 0, false
	}

	return userID, req.Amount, true
}

// respondError maps domain errors onto status categories: business
// failures are the caller's to correct (400), lock timeouts are
// retryable (503), anything else is an internal error with a generic
// message (500).
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case IsBusiness(err):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case KindOf(err) == KindLockTimeout:
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
	}
}
