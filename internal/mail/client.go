package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Sender delivers one rendered message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Client submits messages to the mail platform's HTTP admin API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	adminToken string
	from       string
}

func NewClient(baseURL, adminToken, from string) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		adminToken: adminToken,
		from:       from,
	}
}

func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	payload := map[string]any{
		"from":    c.from,
		"to":      []string{to},
		"subject": subject,
		"text":    body,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	url := fmt.Sprintf("%s/api/queue/messages", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("send message request: %w", err)
	}
	req.SetBasicAuth("admin", c.adminToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send message to %s: status %d: %s", to, resp.StatusCode, string(respBody))
	}
	return nil
}
