package notifier

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Message is a single outbound SMS.
type Message struct {
	To   string
	Body string
}

// SMSSender delivers a message to a phone number. Implementations report
// transient provider failures as *RetryableError so the consumer can
// requeue, and everything else as permanent.
type SMSSender interface {
	Send(ctx context.Context, msg Message) error
}

// RetryableError wraps transient delivery failures that should trigger a
// broker requeue.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error.
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}

// TwilioConfig holds Twilio REST API credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string // override for tests; defaults to the Twilio API
	Timeout    time.Duration
}

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioSender sends SMS through the Twilio Messages endpoint.
type TwilioSender struct {
	config     *TwilioConfig
	httpClient *http.Client
}

// NewTwilioSender creates an SMS sender against the Twilio REST API.
func NewTwilioSender(config *TwilioConfig) *TwilioSender {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TwilioSender{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var _ SMSSender = (*TwilioSender)(nil)

// Send posts the message to Twilio. Network errors and 5xx responses are
// retryable; 4xx responses are permanent (bad number, bad credentials).
func (s *TwilioSender) Send(ctx context.Context, msg Message) error {
	baseURL := s.config.BaseURL
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", baseURL, s.config.AccountSID)

	form := url.Values{}
	form.Set("To", msg.To)
	form.Set("From", s.config.FromNumber)
	form.Set("Body", msg.Body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build twilio request: %w", err)
	}
	req.SetBasicAuth(s.config.AccountSID, s.config.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return NewRetryableError(fmt.Errorf("twilio request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 500 {
		return NewRetryableError(fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(body)))
	}

	return fmt.Errorf("twilio rejected message (%d): %s", resp.StatusCode, string(body))
}
