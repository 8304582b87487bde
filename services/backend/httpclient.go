// Package backend talks to the restaurant booking REST API on behalf of a signed-in user.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type HttpClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHttpClient(baseURL string, timeout time.Duration) *HttpClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HttpClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type Response struct {
	*http.Response
	Body []byte
}

func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *HttpClient) GET(ctx context.Context, path, token string) (*Response, error) {
	return c.request(ctx, http.MethodGet, path, token, nil)
}

func (c *HttpClient) POST(ctx context.Context, path, token string, body any) (*Response, error) {
	return c.request(ctx, http.MethodPost, path, token, body)
}

func (c *HttpClient) request(ctx context.Context, method, path, token string, body any) (*Response, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{
		Response: resp,
		Body:     respBody,
	}, nil
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

func newAPIError(resp *Response) error {
	return &APIError{StatusCode: resp.StatusCode, Message: GetErrorMessage(resp)}
}

func GetErrorMessage(resp *Response) string {
	var errResp struct {
		Error   any    `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := resp.DecodeJSON(&errResp); err != nil {
		return http.StatusText(resp.StatusCode)
	}

	if errResp.Message != "" {
		return errResp.Message
	}
	if errResp.Detail != "" {
		return errResp.Detail
	}
	if s, ok := errResp.Error.(string); ok && s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}
