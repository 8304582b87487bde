package routes

import (
	"time"

	"tablebook/handlers"
	"tablebook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers Telegram sign-in and sign-out.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/telegram", hb.TelegramAuthHandler)

		api.Use(middleware.JWTAuthUserMiddleware(hb.AuthSessions))
		api.POST("/signout", hb.SignOutHandler)
	}
}

// RegisterUserRoutes registers profile endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.AuthSessions))
		api.GET("/me", hb.GetMeHandler)
		api.PUT("/me/phone", hb.UpdatePhoneHandler)
		api.POST("/me/onboarding/complete", hb.CompleteOnboardingHandler)
	}
}

// RegisterGateRoutes registers the redirect gate.
func RegisterGateRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/gate")
	{
		api.Use(middleware.JWTAuthUserMiddleware(hb.AuthSessions))
		api.POST("/evaluate", hb.EvaluateGateHandler)
	}
}

// RegisterBookingRoutes sets up the booking form session endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.JWTAuthUserMiddleware(hb.AuthSessions))
		bookingGroup.POST("/session", hb.InitiateSession)
		bookingGroup.GET("/session/:sessionID", hb.GetSession)
		bookingGroup.PATCH("/session/:sessionID", hb.UpdateSession)
		bookingGroup.POST("/session/:sessionID/slots/retry", hb.RetrySlots)
		bookingGroup.PUT("/session/:sessionID/partition", hb.SelectPartition)
		bookingGroup.DELETE("/session/:sessionID/popup", hb.DismissPopup)
		bookingGroup.POST("/session/:sessionID/submit", hb.SubmitBooking)
		bookingGroup.DELETE("/session/:sessionID", hb.CancelSession)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterGateRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
}
