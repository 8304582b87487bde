package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tablebook/models"
)

// BookingAPI is the set of backend calls the booking form needs.
type BookingAPI interface {
	GetAvailableDays(ctx context.Context, token, restaurantID string, leadDays int) ([]string, error)
	GetAvailableTimeSlots(ctx context.Context, token, restaurantID, date string, guestCount int) ([]models.TimeSlot, error)
	CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (*models.CreateBookingResponse, error)
	ClaimCertificate(ctx context.Context, token string, req models.ClaimCertificateRequest) error
	GetCertificates(ctx context.Context, token, userID string) ([]models.Certificate, error)
}

// Client implements BookingAPI over HTTP.
type Client struct {
	httpClient *HttpClient
}

var _ BookingAPI = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{httpClient: NewHttpClient(baseURL, timeout)}
}

func (c *Client) GetAvailableDays(ctx context.Context, token, restaurantID string, leadDays int) ([]string, error) {
	q := url.Values{}
	q.Set("lead_days", strconv.Itoa(leadDays))
	path := "/book/available_days/" + url.PathEscape(restaurantID) + "?" + q.Encode()

	resp, err := c.httpClient.GET(ctx, path, token)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	var days []string
	if err := resp.DecodeJSON(&days); err != nil {
		return nil, fmt.Errorf("decode available days: %w", err)
	}
	return days, nil
}

func (c *Client) GetAvailableTimeSlots(ctx context.Context, token, restaurantID, date string, guestCount int) ([]models.TimeSlot, error) {
	q := url.Values{}
	q.Set("date", date)
	q.Set("guests_count", strconv.Itoa(guestCount))
	path := "/book/available_time_slots/" + url.PathEscape(restaurantID) + "?" + q.Encode()

	resp, err := c.httpClient.GET(ctx, path, token)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	var slots []models.TimeSlot
	if err := resp.DecodeJSON(&slots); err != nil {
		return nil, fmt.Errorf("decode time slots: %w", err)
	}
	return slots, nil
}

// CreateBooking returns a response with Error set when the backend rejected the booking,
// and an error only for transport or server failures.
func (c *Client) CreateBooking(ctx context.Context, token string, req models.CreateBookingRequest) (*models.CreateBookingResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/book/create", token, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, newAPIError(resp)
	}

	var out models.CreateBookingResponse
	if err := resp.DecodeJSON(&out); err != nil {
		if resp.OK() {
			return nil, fmt.Errorf("decode booking: %w", err)
		}
		return nil, newAPIError(resp)
	}
	if !resp.OK() && !out.Rejected() {
		return nil, newAPIError(resp)
	}
	if resp.OK() && !out.Rejected() && out.ID == 0 {
		return nil, errors.New("backend returned a booking without id")
	}
	return &out, nil
}

func (c *Client) ClaimCertificate(ctx context.Context, token string, req models.ClaimCertificateRequest) error {
	resp, err := c.httpClient.POST(ctx, "/certificates/claim", token, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return newAPIError(resp)
	}
	return nil
}

func (c *Client) GetCertificates(ctx context.Context, token, userID string) ([]models.Certificate, error) {
	resp, err := c.httpClient.GET(ctx, "/certificates/"+url.PathEscape(userID), token)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, newAPIError(resp)
	}

	var certs []models.Certificate
	if err := resp.DecodeJSON(&certs); err != nil {
		return nil, fmt.Errorf("decode certificates: %w", err)
	}
	return certs, nil
}
