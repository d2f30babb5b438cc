package calendly

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError is a non-2xx reply from the Calendly API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Calendly API error: %s", e.Status)
}

// User is the account behind the API key.
type User struct {
	URI                 string    `json:"uri"`
	Name                string    `json:"name"`
	Slug                string    `json:"slug"`
	Email               string    `json:"email"`
	SchedulingURL       string    `json:"scheduling_url"`
	Timezone            string    `json:"timezone"`
	CurrentOrganization string    `json:"current_organization"`
	CreatedAt           time.Time `json:"created_at"`
}

// ScheduledEvent is one booked meeting.
type ScheduledEvent struct {
	URI       string    `json:"uri"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	EventType string    `json:"event_type"`
	Location  *Location `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Location is where a meeting takes place.
type Location struct {
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
	JoinURL  string `json:"join_url,omitempty"`
}

// Pagination is the cursor block of list replies.
type Pagination struct {
	Count         int    `json:"count"`
	NextPage      string `json:"next_page"`
	NextPageToken string `json:"next_page_token"`
}

// ScheduledEvents is one page of scheduled events.
type ScheduledEvents struct {
	Collection []ScheduledEvent `json:"collection"`
	Pagination Pagination       `json:"pagination"`
}

// CurrentUser fetches the user that owns the API key.
func (s *Service) CurrentUser(ctx context.Context) (*User, error) {
	var out struct {
		Resource User `json:"resource"`
	}
	if err := s.get(ctx, "/users/me", nil, &out); err != nil {
		s.logger.Error("calendly: failed to fetch user info", "error", err)
		return nil, err
	}
	return &out.Resource, nil
}

// ScheduledEvents lists the events booked with userURI.
func (s *Service) ScheduledEvents(ctx context.Context, userURI string) (*ScheduledEvents, error) {
	var out ScheduledEvents
	if err := s.get(ctx, "/scheduled_events", url.Values{"user": {userURI}}, &out); err != nil {
		s.logger.Error("calendly: failed to fetch scheduled events", "error", err, "user", userURI)
		return nil, err
	}
	return &out, nil
}

func (s *Service) get(ctx context.Context, path string, query url.Values, out any) error {
	if s.apiKey == "" {
		return ErrAPIKeyMissing
	}
	endpoint := s.apiBaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("calendly: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendly: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("calendly: read %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Status: http.StatusText(resp.StatusCode), Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("calendly: decode %s: %w", path, err)
	}
	return nil
}
