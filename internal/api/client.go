// Package api provides the HTTP client for the concierge backend's chat
// and lead endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openlistings/concierge/internal/lead"
	"github.com/openlistings/concierge/internal/protocol"
	"github.com/openlistings/concierge/pkg/logging"
)

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	BusinessID     string `json:"business_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
	SheetID        string `json:"sheet_id,omitempty"`
}

// EventStream is a finite, non-restartable sequence of chat events.
// Next returns io.EOF when the stream is exhausted. Close abandons the
// underlying connection and may be called at any time.
type EventStream interface {
	Next() (protocol.Event, error)
	Close() error
}

// Client is an HTTP client for the concierge backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds each request, streaming included.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a backend client. baseURL is the API origin, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logging.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Chat posts a message and returns the reply event stream. The backend
// answers either with newline-delimited JSON events or, in the
// non-streaming variant, a single JSON object; the latter is surfaced as a
// one-event stream so callers only deal with events.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (EventStream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("api: marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: create chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson, application/json")

	c.logger.Debug("sending chat message", "conversation_id", req.ConversationID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api: chat request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, fmt.Errorf("api: chat failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "ndjson") {
		return &chatStream{
			body: resp.Body,
			dec:  protocol.NewDecoder(resp.Body, c.logger),
		}, nil
	}

	var result protocol.ChatResult
	decodeErr := json.NewDecoder(resp.Body).Decode(&result)
	resp.Body.Close()
	if decodeErr != nil {
		return nil, fmt.Errorf("api: decode chat response: %w", decodeErr)
	}
	return &singleEventStream{
		event: protocol.Event{Type: protocol.EventResult, Data: &result},
	}, nil
}

// SubmitLead posts a lead submission. A 2xx response signals acceptance;
// anything else is a rejection.
func (c *Client) SubmitLead(ctx context.Context, sub lead.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("api: marshal lead: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/lead", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: create lead request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("api: lead request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("api: lead rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	c.logger.Info("lead accepted", "conversation_id", sub.ConversationID)
	return nil
}

type chatStream struct {
	body io.ReadCloser
	dec  *protocol.Decoder
}

func (s *chatStream) Next() (protocol.Event, error) { return s.dec.Next() }
func (s *chatStream) Close() error                  { return s.body.Close() }

type singleEventStream struct {
	event protocol.Event
	done  bool
}

func (s *singleEventStream) Next() (protocol.Event, error) {
	if s.done {
		return protocol.Event{}, io.EOF
	}
	s.done = true
	return s.event, nil
}

func (s *singleEventStream) Close() error { return nil }
