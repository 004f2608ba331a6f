// Package checkout sends the cart and card details to the storefront's
// checkout endpoint.
package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/domain"
	"go.uber.org/zap"
)

const (
	Path = "/api/checkout"

	// CustomerHeader carries the logged-in customer's id.
	CustomerHeader = "X-Customer-ID"

	GenericFailureMessage = "An error occurred during payment processing. Please try again."

	maxResponseBytes = 1 << 20
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrCheckoutFailed   = errors.New("checkout failed")
	ErrSubmitInProgress = errors.New("checkout already in progress")
)

// Outcome is the result reported by the checkout endpoint.
type Outcome struct {
	Success bool
	OrderID string
	Error   string
}

type Submitter struct {
	endpoint   string
	store      *cart.Store
	client     *http.Client
	log        *zap.Logger
	customerID string

	inFlight atomic.Bool
}

type Option func(*Submitter)

func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) {
		if c != nil {
			s.client = c
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Submitter) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCustomer identifies the logged-in customer to the checkout endpoint.
func WithCustomer(id string) Option {
	return func(s *Submitter) {
		s.customerID = id
	}
}

func NewSubmitter(baseURL string, store *cart.Store, opts ...Option) *Submitter {
	s := &Submitter{
		endpoint: strings.TrimRight(baseURL, "/") + Path,
		store:    store,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit posts the current cart with card. A successful checkout takes the
// submitted items off the cart, so with no concurrent changes the cart ends up
// empty and anything added while the request was in flight stays. Declines
// come back as an Outcome with Success false; transport and decoding problems
// as an error wrapping ErrCheckoutFailed.
func (s *Submitter) Submit(ctx context.Context, card domain.CardDetails) (Outcome, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return Outcome{}, ErrSubmitInProgress
	}
	defer s.inFlight.Store(false)

	snap := s.store.Snapshot()
	if len(snap.Items) == 0 {
		return Outcome{}, ErrEmptyCart
	}

	resp, err := s.post(ctx, NewRequest(snap.Items, snap.Total, card))
	if err != nil {
		s.log.Error("checkout request failed", zap.String("endpoint", s.endpoint), zap.Error(err))
		return Outcome{}, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	if !resp.Success {
		s.log.Info("checkout declined", zap.String("reason", resp.Error))
		return Outcome{Success: false, Error: resp.Error}, nil
	}

	s.log.Info("checkout completed",
		zap.String("order_id", resp.OrderID),
		zap.String("amount", snap.Total.String()),
		zap.Int("items", snap.Count))

	if err := s.store.Subtract(ctx, snap.Items); err != nil {
		// the order went through; a stale mirror is only a warning
		s.log.Warn("cart clear after checkout", zap.Error(err))
	}

	return Outcome{Success: true, OrderID: resp.OrderID}, nil
}

func (s *Submitter) post(ctx context.Context, body Request) (Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.customerID != "" {
		req.Header.Set(CustomerHeader, s.customerID)
	}

	httpResp, err := s.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("client.Do: %w", err)
	}
	defer httpResp.Body.Close()

	// Declines arrive as 4xx with a JSON body, so the status alone is not decisive.
	var resp Response
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("decode response (status %d): %w", httpResp.StatusCode, err)
	}

	if !resp.Success && resp.Error == "" {
		resp.Error = http.StatusText(httpResp.StatusCode)
	}

	return resp, nil
}
