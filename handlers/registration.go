package handlers

import (
	"errors"
	"net/http"

	"tradelink/models"
	"tradelink/services/registration"
	"tradelink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegistrationHandler struct {
	Sessions *registration.Manager
}

func NewRegistrationHandler(m *registration.Manager) *RegistrationHandler {
	return &RegistrationHandler{Sessions: m}
}

type openRequest struct {
	SessionID  string `json:"sessionId"`
	CategoryID string `json:"categoryId" binding:"required"`
}

type detailsRequest struct {
	registration.Details
	BillingCycle models.BillingCycle `json:"billingCycle"`
}

// OpenHandler handles POST /api/registration. Passing a known sessionId
// restarts that session.
func (h *RegistrationHandler) OpenHandler(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
		return
	}
	if req.SessionID == "" {
		req.SessionID = c.GetHeader(utils.SessionHeader)
	}
	sid, state, err := h.Sessions.Open(req.SessionID, req.CategoryID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"sessionId": sid, "state": state})
}

// GetHandler handles GET /api/registration/:sid.
func (h *RegistrationHandler) GetHandler(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// SubmitDetailsHandler handles PUT /api/registration/:sid/details.
func (h *RegistrationHandler) SubmitDetailsHandler(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	var req detailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid details", err.Error())
		return
	}
	if err := w.SubmitDetails(req.Details, req.BillingCycle); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// BackHandler handles POST /api/registration/:sid/back.
func (h *RegistrationHandler) BackHandler(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	if err := w.Back(); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, w.Snapshot())
}

// StartPaymentHandler handles POST /api/registration/:sid/payment. The
// client opens checkoutUrl itself; the listing is created after a delay
// whether or not checkout is completed.
func (h *RegistrationHandler) StartPaymentHandler(c *gin.Context) {
	w, ok := h.wizard(c)
	if !ok {
		return
	}
	url, err := w.StartPayment(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	getLogger(c).Info("Checkout started", zap.String("session", c.Param("sid")))
	c.JSON(http.StatusAccepted, gin.H{"checkoutUrl": url, "state": w.Snapshot()})
}

// CloseHandler handles DELETE /api/registration/:sid.
func (h *RegistrationHandler) CloseHandler(c *gin.Context) {
	if err := h.Sessions.Close(c.Param("sid")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RegistrationHandler) wizard(c *gin.Context) (*registration.Wizard, bool) {
	w, err := h.Sessions.Get(c.Param("sid"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return w, true
}

func (h *RegistrationHandler) fail(c *gin.Context, err error) {
	var verr *registration.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONFieldError(c, "Please fill in all required fields", verr.Fields)
	case errors.Is(err, registration.ErrSessionNotFound):
		utils.JSONError(c, http.StatusNotFound, "Registration session not found", c.Param("sid"))
	case errors.Is(err, registration.ErrUnknownCategory), errors.Is(err, registration.ErrInvalidCycle):
		utils.JSONError(c, http.StatusBadRequest, "Invalid registration request", err.Error())
	case errors.Is(err, registration.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, "Registration is not at that step", err.Error())
	default:
		getLogger(c).Error("Registration failed", zap.Error(err))
		utils.JSONError(c, http.StatusBadGateway, "Could not start checkout", err.Error())
	}
}
