// Package server exposes the storefront API used by the checkout and chat clients.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/account"
	"github.com/nikolayk812/storefront/internal/chat"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/payment"
	"github.com/nikolayk812/storefront/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const CustomerHeader = checkout.CustomerHeader

const maxBodyBytes = 1 << 20

const (
	loginRequired = "Please login first"
	orderNotFound = "Order not found"
)

type Handler struct {
	gateway  port.PaymentGateway
	orders   port.OrderRepository
	courses  port.CourseAccessRepository
	answerer port.Answerer
	currency currency.Unit
	log      *zap.Logger
}

type Option func(*Handler)

func WithCurrency(unit currency.Unit) Option {
	return func(h *Handler) {
		h.currency = unit
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

func NewHandler(
	gateway port.PaymentGateway,
	orders port.OrderRepository,
	courses port.CourseAccessRepository,
	answerer port.Answerer,
	opts ...Option,
) *Handler {
	h := &Handler{
		gateway:  gateway,
		orders:   orders,
		courses:  courses,
		answerer: answerer,
		currency: currency.ZAR,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the API mux wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("POST "+checkout.Path, h.Checkout)
	mux.HandleFunc("POST "+chat.Path, h.Chat)
	mux.HandleFunc("GET "+account.OrdersPath, h.ListOrders)
	mux.HandleFunc("GET "+account.OrdersPath+"/{id}", h.GetOrder)
	mux.HandleFunc("GET "+account.CoursesPath, h.ListCourses)

	return Logging(h.log)(mux)
}

// Checkout charges the card, records the order and grants access to any
// courses in it.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	customerID := customer(r)
	if customerID == "" {
		writeJSON(w, http.StatusUnauthorized, checkout.Response{Error: loginRequired})
		return
	}

	var req checkout.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, checkout.Response{Error: "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, checkout.Response{Error: "Cart is empty"})
		return
	}

	ctx := r.Context()
	amount := domain.NewMoney(req.Amount, h.currency)

	txnID, err := h.gateway.Charge(ctx, amount, req.Card(), customerID)
	if err != nil {
		msg := "Payment processing error"
		if errors.Is(err, payment.ErrInvalidCard) {
			msg = err.Error()
		}
		h.log.Info("charge declined", zap.String("customer_id", customerID), zap.Error(err))
		writeJSON(w, http.StatusBadRequest, checkout.Response{Error: msg})
		return
	}

	items := req.LineItems()
	orderID, err := h.orders.CreateOrder(ctx, domain.Order{
		OwnerID:       customerID,
		Items:         items,
		Amount:        amount,
		TransactionID: txnID,
	})
	if err != nil {
		h.log.Error("order not recorded after charge",
			zap.String("customer_id", customerID),
			zap.String("transaction_id", txnID),
			zap.Error(err))

		if _, refundErr := h.gateway.Refund(ctx, txnID, nil); refundErr != nil {
			h.log.Error("refund after failed order", zap.String("transaction_id", txnID), zap.Error(refundErr))
		}

		writeJSON(w, http.StatusInternalServerError, checkout.Response{Error: "Order could not be saved"})
		return
	}

	if courseIDs := domain.CourseIDs(items); len(courseIDs) > 0 {
		// the order is already recorded; a failed grant is only logged
		if err := h.courses.GrantCourseAccess(ctx, customerID, courseIDs); err != nil {
			h.log.Error("course access not granted",
				zap.String("customer_id", customerID),
				zap.Stringer("order_id", orderID),
				zap.Strings("course_ids", courseIDs),
				zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, checkout.Response{
		Success: true,
		OrderID: orderID.String(),
		Message: "Payment processed successfully",
	})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	// A missing or unreadable body is an empty question.
	_ = json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)

	writeJSON(w, http.StatusOK, chat.Response{Response: h.answerer.Answer(r.Context(), req.Question)})
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID := customer(r)
	if customerID == "" {
		writeJSON(w, http.StatusUnauthorized, account.ErrorJSON{Error: loginRequired})
		return
	}

	orders, err := h.orders.ListOrders(r.Context(), customerID)
	if err != nil {
		h.log.Error("list orders", zap.String("customer_id", customerID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, account.ErrorJSON{Error: "Orders could not be loaded"})
		return
	}

	body := make([]account.OrderJSON, 0, len(orders))
	for _, o := range orders {
		body = append(body, account.FromOrder(o))
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	customerID := customer(r)
	if customerID == "" {
		writeJSON(w, http.StatusUnauthorized, account.ErrorJSON{Error: loginRequired})
		return
	}

	orderID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, account.ErrorJSON{Error: orderNotFound})
		return
	}

	order, err := h.orders.GetOrder(r.Context(), customerID, orderID)
	if errors.Is(err, port.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, account.ErrorJSON{Error: orderNotFound})
		return
	}
	if err != nil {
		h.log.Error("get order", zap.String("customer_id", customerID), zap.Stringer("order_id", orderID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, account.ErrorJSON{Error: "Order could not be loaded"})
		return
	}

	writeJSON(w, http.StatusOK, account.FromOrder(order))
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	customerID := customer(r)
	if customerID == "" {
		writeJSON(w, http.StatusUnauthorized, account.ErrorJSON{Error: loginRequired})
		return
	}

	courses, err := h.courses.ListCourseAccess(r.Context(), customerID)
	if err != nil {
		h.log.Error("list courses", zap.String("customer_id", customerID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, account.ErrorJSON{Error: "Courses could not be loaded"})
		return
	}

	writeJSON(w, http.StatusOK, account.FromCourses(courses))
}

func customer(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(CustomerHeader))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
