package contactform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/sitefront/internal/validation"
)

// Response is the decoded reply of the contact endpoint.
type Response struct {
	StatusCode int                     `json:"-"`
	Success    bool                    `json:"success"`
	Message    string                  `json:"message,omitempty"`
	ID         string                  `json:"id,omitempty"`
	Error      string                  `json:"error,omitempty"`
	Details    []validation.FieldError `json:"details,omitempty"`
}

// OK reports whether the submission was accepted.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300 && r.Success
}

// Submitter delivers a validated submission to the endpoint.
type Submitter interface {
	Submit(ctx context.Context, endpoint string, data validation.ContactFormData) (*Response, error)
}

// HTTPSubmitter posts submissions as JSON.
type HTTPSubmitter struct {
	// BaseURL is prefixed to relative endpoints such as "/api/contact".
	BaseURL string
	Client  *http.Client
}

// NewHTTPSubmitter creates a submitter for the site at baseURL.
func NewHTTPSubmitter(baseURL string) *HTTPSubmitter {
	return &HTTPSubmitter{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 20 * time.Second},
	}
}

// Submit posts data and decodes the JSON reply. Non-2xx replies are
// returned as a Response, not an error; transport and decode failures are errors.
func (s *HTTPSubmitter) Submit(ctx context.Context, endpoint string, data validation.ContactFormData) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("contactform: marshal: %w", err)
	}
	url := endpoint
	if strings.HasPrefix(endpoint, "/") {
		url = s.BaseURL + endpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("contactform: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contactform: post: %w", err)
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return nil, fmt.Errorf("contactform: decode response (status %d): %w", resp.StatusCode, err)
	}
	out.StatusCode = resp.StatusCode
	return &out, nil
}
