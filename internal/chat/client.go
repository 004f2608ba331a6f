// Package chat implements the storefront support chatbot: a client for the
// chat endpoint, a persisted conversation and the built-in support answerer.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	Path = "/api/chat"

	FallbackMessage = "I'm sorry, I'm having trouble connecting right now. Please try again later."

	maxResponseBytes = 1 << 20
)

// Asker answers a question. Implementations never fail; they fall back to a
// canned reply instead.
type Asker interface {
	Ask(ctx context.Context, question string) string
}

type Request struct {
	Question string `json:"question"`
}

type Response struct {
	Response string `json:"response"`
}

type Client struct {
	endpoint string
	client   *http.Client
	log      *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.client = c
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(cl *Client) {
		if log != nil {
			cl.log = log
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + Path,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask returns the endpoint's reply, or FallbackMessage on any failure.
func (c *Client) Ask(ctx context.Context, question string) string {
	answer, err := c.ask(ctx, question)
	if err != nil {
		c.log.Warn("chat request failed", zap.String("endpoint", c.endpoint), zap.Error(err))
		return FallbackMessage
	}
	return answer
}

func (c *Client) ask(ctx context.Context, question string) (string, error) {
	payload, err := json.Marshal(Request{Question: question})
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(body.Response) == "" {
		return "", fmt.Errorf("empty response")
	}

	return body.Response, nil
}
