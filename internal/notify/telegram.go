package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TelegramSender posts messages through the Bot API sendMessage method.
type TelegramSender struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
}

// NewTelegramSender builds a sender for the given API host, e.g. "api.telegram.org".
// A host with a scheme is used as-is.
func NewTelegramSender(host, token, chatID string) *TelegramSender {
	if host == "" {
		host = "api.telegram.org"
	}
	baseURL := host
	if !strings.Contains(host, "://") {
		baseURL = "https://" + host
	}
	return &TelegramSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramSender) Send(ctx context.Context, msg Message) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	body, err := json.Marshal(map[string]string{
		"chat_id":    t.chatID,
		"text":       msg.MarkdownV2(),
		"parse_mode": "MarkdownV2",
	})
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

func (t *TelegramSender) Name() string {
	return "telegram"
}
