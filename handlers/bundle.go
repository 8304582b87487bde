package handlers

import (
	"tablebook/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	AuthSessions middleware.AuthSessionLookup

	// Health
	HealthHandler gin.HandlerFunc

	// Auth and profile
	TelegramAuthHandler       gin.HandlerFunc
	SignOutHandler            gin.HandlerFunc
	GetMeHandler              gin.HandlerFunc
	UpdatePhoneHandler        gin.HandlerFunc
	CompleteOnboardingHandler gin.HandlerFunc

	// Redirect gate
	EvaluateGateHandler gin.HandlerFunc

	// Booking form sessions
	InitiateSession gin.HandlerFunc
	GetSession      gin.HandlerFunc
	UpdateSession   gin.HandlerFunc
	RetrySlots      gin.HandlerFunc
	SelectPartition gin.HandlerFunc
	DismissPopup    gin.HandlerFunc
	SubmitBooking   gin.HandlerFunc
	CancelSession   gin.HandlerFunc
}
