package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Dispatcher records events without making the caller wait.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event)
}

// Client posts events to an HTTP collector. An empty endpoint disables it.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	// done, when set, is called after each send finishes. Tests use it.
	done func(error)
}

var _ Dispatcher = (*Client)(nil)

func NewClient(endpoint string) *Client {
	return &Client{
		Endpoint:   endpoint,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Dispatch sends ev on its own goroutine and returns immediately. The send
// outlives ctx cancellation; failures are only logged.
func (c *Client) Dispatch(ctx context.Context, ev Event) {
	if c == nil || c.Endpoint == "" {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		err := c.Send(detached, ev)
		if err != nil {
			log.Printf("⚠️ analytics: %s event for tenant %s dropped: %v", ev.EventType, ev.TenantID, err)
		}
		if c.done != nil {
			c.done(err)
		}
	}()
}

// Send posts ev and waits for the response.
func (c *Client) Send(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post event: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned %s", resp.Status)
	}
	return nil
}
