package notify

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"netwatch/internal/log"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram sends messages through the Telegram bot sendMessage API.
type Telegram struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
}

// Option configures the Telegram notifier.
type Option func(*Telegram)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *Telegram) {
		if client != nil {
			t.client = client
		}
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(t *Telegram) {
		if baseURL != "" {
			t.baseURL = baseURL
		}
	}
}

// NewTelegram constructs a Telegram notifier.
func NewTelegram(token, chatID string, opts ...Option) *Telegram {
	t := &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Notify posts the text to the configured chat. Failures are logged at debug
// level and otherwise discarded; delivery is never retried.
func (t *Telegram) Notify(ctx context.Context, text string) {
	form := url.Values{
		"chat_id": {t.chatID},
		"text":    {text},
	}

	endpoint := t.baseURL + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		log.Debug().Err(err).Msg("telegram request build failed")
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Msg("telegram send failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Debug().Int("status", resp.StatusCode).Msg("telegram send rejected")
	}
}
