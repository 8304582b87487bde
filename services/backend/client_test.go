package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tablebook/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, time.Second)
}

func TestGetAvailableDays(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/book/available_days/77" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("lead_days") != "30" {
			t.Errorf("lead_days = %q", r.URL.Query().Get("lead_days"))
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewEncoder(w).Encode([]string{"2026-10-21", "2026-10-22"})
	})

	days, err := c.GetAvailableDays(context.Background(), "tok", "77", 30)
	if err != nil {
		t.Fatalf("GetAvailableDays: %v", err)
	}
	if len(days) != 2 || days[0] != "2026-10-21" {
		t.Errorf("unexpected days %v", days)
	}
}

func TestGetAvailableTimeSlots(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("date") != "2026-10-21" || q.Get("guests_count") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`[{"start_datetime":"2026-10-21T19:00:00","end_datetime":"2026-10-21T21:00:00"}]`))
	})

	slots, err := c.GetAvailableTimeSlots(context.Background(), "tok", "77", "2026-10-21", 2)
	if err != nil {
		t.Fatalf("GetAvailableTimeSlots: %v", err)
	}
	if len(slots) != 1 || slots[0].StartDatetime != "2026-10-21T19:00:00" {
		t.Errorf("unexpected slots %+v", slots)
	}
}

func TestGetAvailableTimeSlots_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"detail":"upstream"}`))
	})

	_, err := c.GetAvailableTimeSlots(context.Background(), "tok", "77", "2026-10-21", 2)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "upstream" {
		t.Errorf("expected APIError 502/upstream, got %v", err)
	}
}

func TestCreateBooking(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantID     int64
		wantReject bool
		wantErr    bool
	}{
		{"created", http.StatusOK, `{"id":555}`, 555, false, false},
		{"rejected with flag", http.StatusOK, `{"error":true}`, 0, true, false},
		{"rejected with 400", http.StatusBadRequest, `{"error":"bot"}`, 0, true, false},
		{"bad request without payload", http.StatusBadRequest, `oops`, 0, false, true},
		{"server error", http.StatusInternalServerError, `{"id":1}`, 0, false, true},
		{"missing id", http.StatusOK, `{}`, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/book/create" {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				var req models.CreateBookingRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("decode request: %v", err)
				}
				if req.RestaurantID != "77" || req.Time != "19:00" {
					t.Errorf("unexpected request %+v", req)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := c.CreateBooking(context.Background(), "tok", models.CreateBookingRequest{RestaurantID: "77", Time: "19:00"})
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", resp)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateBooking: %v", err)
			}
			if resp.ID != tt.wantID || resp.Rejected() != tt.wantReject {
				t.Errorf("got id=%d rejected=%v", resp.ID, resp.Rejected())
			}
		})
	}
}

func TestCertificates(t *testing.T) {
	claimed := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/certificates/claim":
			var req models.ClaimCertificateRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.CertificateID != "c1" || req.RecipientName != "Анна" {
				t.Errorf("unexpected claim %+v", req)
			}
			claimed = true
			w.WriteHeader(http.StatusNoContent)
		case "/certificates/u1":
			_, _ = w.Write([]byte(`[{"id":"c1","value":5000}]`))
		default:
			http.NotFound(w, r)
		}
	})

	ctx := context.Background()
	if err := c.ClaimCertificate(ctx, "tok", models.ClaimCertificateRequest{UserID: "u1", CertificateID: "c1", RecipientName: "Анна"}); err != nil {
		t.Fatalf("ClaimCertificate: %v", err)
	}
	if !claimed {
		t.Error("claim endpoint not called")
	}

	certs, err := c.GetCertificates(ctx, "tok", "u1")
	if err != nil {
		t.Fatalf("GetCertificates: %v", err)
	}
	if len(certs) != 1 || certs[0].ID != "c1" {
		t.Errorf("unexpected certificates %+v", certs)
	}
}
