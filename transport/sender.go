package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Sender delivers reply text to a chat participant
type Sender interface {
	Send(ctx context.Context, to, text string) error
}

// HTTPSender posts replies to the chat gateway's send endpoint
type HTTPSender struct {
	url    string
	client *http.Client
}

// NewHTTPSender creates a sender posting to the given send-API URL
func NewHTTPSender(url string) *HTTPSender {
	return &HTTPSender{
		url: url,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type outboundPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *HTTPSender) Send(ctx context.Context, to, text string) error {
	body, err := json.Marshal(outboundPayload{To: to, Body: text})
	if err != nil {
		return fmt.Errorf("failed to encode reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver reply: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
