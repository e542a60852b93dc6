package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notification is the payload posted to the parent-notification gateway
// after a scan is recorded.
type Notification struct {
	ParentName  string    `json:"parent_name"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email,omitempty"`
	StudentName string    `json:"student_name"`
	BusName     string    `json:"bus_name"`
	Status      string    `json:"status"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	When        time.Time `json:"when"`
}

// Client calls the notification gateway.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
}

// New creates a client. With skip set, every call is a no-op; useful for
// local development without a gateway.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one notification.
func (c *Client) Send(ctx context.Context, n Notification) error {
	if c.Skip {
		return nil
	}
	if n.Phone == "" && n.Email == "" {
		return fmt.Errorf("notification needs a phone or email")
	}

	body, _ := json.Marshal(n)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/notifications", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("notify gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notify gateway error %s: %s", resp.Status, string(bodyBytes))
	}
	return nil
}

// Health checks if the gateway is available.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("notify gateway unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify gateway unhealthy: %s", resp.Status)
	}
	return nil
}
