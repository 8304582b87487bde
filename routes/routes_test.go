package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tablebook/handlers"

	"github.com/gin-gonic/gin"
)

func TestRegisterRoutes_ProtectedEndpointsRequireToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ok := func(c *gin.Context) { c.Status(http.StatusTeapot) }
	hb := &handlers.HandlerBundle{
		HealthHandler: ok, TelegramAuthHandler: ok, SignOutHandler: ok,
		GetMeHandler: ok, UpdatePhoneHandler: ok, CompleteOnboardingHandler: ok,
		EvaluateGateHandler: ok,
		InitiateSession: ok, GetSession: ok, UpdateSession: ok, RetrySlots: ok,
		SelectPartition: ok, DismissPopup: ok, SubmitBooking: ok, CancelSession: ok,
	}
	r := gin.New()
	RegisterRoutes(r, hb)

	tests := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/health", http.StatusTeapot},
		{http.MethodPost, "/api/auth/telegram", http.StatusTeapot},
		{http.MethodGet, "/api/users/me", http.StatusUnauthorized},
		{http.MethodPost, "/api/gate/evaluate", http.StatusUnauthorized},
		{http.MethodPost, "/api/booking/session", http.StatusUnauthorized},
		{http.MethodPatch, "/api/booking/session/abc", http.StatusUnauthorized},
		{http.MethodDelete, "/api/booking/session/abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
