package handlers

import (
	"errors"
	"io"
	"net/http"

	"tablebook/models"
	"tablebook/services/booking"
	"tablebook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the booking form session endpoints.
type BookingHandler struct {
	BookingService booking.BookingSessionService
	Logger         *zap.Logger
}

func NewBookingHandler(svc booking.BookingSessionService, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &BookingHandler{BookingService: svc, Logger: logger}
}

// requestAuth rebuilds the caller's token so it can be forwarded to the backend.
func requestAuth(c *gin.Context) models.Auth {
	token := c.GetString(utils.CtxAccessToken)
	auth := models.Auth{AccessToken: token}
	if exp, err := utils.TokenExpiry(token); err == nil {
		auth.ExpiresAt = exp
	}
	return auth
}

func (h *BookingHandler) respondError(c *gin.Context, sessionID string, err error) {
	var be *booking.BookingError
	switch {
	case booking.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "booking session not found or expired"})
	case errors.Is(err, booking.ErrSessionClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &be):
		c.JSON(http.StatusBadRequest, gin.H{"error": be.Message, "code": be.Code})
	default:
		h.Logger.Error("Booking session request failed",
			zap.String("sessionID", sessionID),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func (h *BookingHandler) userOrAbort(c *gin.Context) (string, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}

// InitiateSession handles POST /api/booking/session. An empty body opens a blank form.
func (h *BookingHandler) InitiateSession(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	var req models.InitiateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	snap, err := h.BookingService.InitiateSession(c.Request.Context(), userID, requestAuth(c), req)
	if err != nil {
		h.respondError(c, "", err)
		return
	}
	c.JSON(http.StatusCreated, snap)
}

// GetSession handles GET /api/booking/session/:sessionID.
func (h *BookingHandler) GetSession(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	snap, err := h.BookingService.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateSession handles PATCH /api/booking/session/:sessionID.
func (h *BookingHandler) UpdateSession(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	var update models.BookingSessionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	snap, err := h.BookingService.UpdateSession(c.Request.Context(), userID, requestAuth(c), sessionID, update)
	var be *booking.BookingError
	if errors.As(err, &be) && snap != nil {
		// Changes before the rejected one are kept.
		c.JSON(http.StatusBadRequest, gin.H{"error": be.Message, "code": be.Code, "snapshot": snap})
		return
	}
	if err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// RetrySlots handles POST /api/booking/session/:sessionID/slots/retry.
func (h *BookingHandler) RetrySlots(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	snap, err := h.BookingService.RetrySlots(c.Request.Context(), userID, requestAuth(c), sessionID)
	if err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SelectPartition handles PUT /api/booking/session/:sessionID/partition.
func (h *BookingHandler) SelectPartition(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	var req struct {
		Partition models.Partition `json:"partition" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	snap, err := h.BookingService.SelectPartition(c.Request.Context(), userID, sessionID, req.Partition)
	if err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// DismissPopup handles DELETE /api/booking/session/:sessionID/popup.
func (h *BookingHandler) DismissPopup(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	snap, err := h.BookingService.DismissPopup(c.Request.Context(), userID, sessionID)
	if err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// SubmitBooking handles POST /api/booking/session/:sessionID/submit. Every outcome other
// than a created booking is reported with 200 and the outcome in the body.
func (h *BookingHandler) SubmitBooking(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	res, err := h.BookingService.Submit(c.Request.Context(), userID, requestAuth(c), sessionID)
	if err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	status := http.StatusOK
	if res.Outcome == models.OutcomeCreated {
		status = http.StatusCreated
		h.Logger.Info("Booking created",
			zap.String("userID", userID),
			zap.String("sessionID", sessionID),
			zap.Int64("bookingID", res.BookingID),
		)
	}
	c.JSON(status, res)
}

// CancelSession handles DELETE /api/booking/session/:sessionID.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	userID, ok := h.userOrAbort(c)
	if !ok {
		return
	}
	sessionID := c.Param("sessionID")
	if err := h.BookingService.CancelSession(c.Request.Context(), userID, sessionID); err != nil {
		h.respondError(c, sessionID, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking session cancelled"})
}
