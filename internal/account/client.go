// Package account reads a customer's order history and owned courses from the
// storefront API.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
)

const (
	OrdersPath  = "/api/orders"
	CoursesPath = "/api/courses/owned"

	maxResponseBytes = 1 << 20
)

var ErrUnauthorized = errors.New("please login first")

type Client struct {
	baseURL    string
	customerID string
	client     *http.Client
	log        *zap.Logger
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

func NewClient(baseURL, customerID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		customerID: customerID,
		client:     &http.Client{Timeout: 30 * time.Second},
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Orders lists the customer's orders, newest first.
func (c *Client) Orders(ctx context.Context) ([]domain.Order, error) {
	var body []OrderJSON
	if err := c.get(ctx, OrdersPath, &body); err != nil {
		return nil, err
	}

	orders := make([]domain.Order, 0, len(body))
	for _, o := range body {
		order, err := o.Order(c.customerID)
		if err != nil {
			return nil, fmt.Errorf("order[%s]: %w", o.ID, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// Order fetches one order. Unknown ids return port.ErrNotFound.
func (c *Client) Order(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	var body OrderJSON
	if err := c.get(ctx, OrdersPath+"/"+id.String(), &body); err != nil {
		return domain.Order{}, err
	}

	return body.Order(c.customerID)
}

func (c *Client) Courses(ctx context.Context) ([]domain.CourseAccess, error) {
	var body []CourseJSON
	if err := c.get(ctx, CoursesPath, &body); err != nil {
		return nil, err
	}

	courses := make([]domain.CourseAccess, 0, len(body))
	for _, cj := range body {
		courses = append(courses, domain.CourseAccess(cj))
	}

	return courses, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	if c.customerID != "" {
		req.Header.Set(checkout.CustomerHeader, c.customerID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("account request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	body := io.LimitReader(resp.Body, maxResponseBytes)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return port.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		var e ErrorJSON
		_ = json.NewDecoder(body).Decode(&e)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, e.Error)
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
