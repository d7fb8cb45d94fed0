package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/egannguyen/purchase-orders/internal/apperr"
	"github.com/egannguyen/purchase-orders/internal/entity"
	"github.com/egannguyen/purchase-orders/internal/metrics"
	"github.com/egannguyen/purchase-orders/internal/service"
)

// Handler exposes the order use cases over HTTP.
type Handler struct {
	orders  *service.OrderService
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

func NewHandler(orders *service.OrderService, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	return &Handler{
		orders:  orders,
		metrics: m,
		log:     log.WithField("component", "http"),
	}
}

// Router builds the routes, wrapped in request logging and metrics.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/orders", h.handleCreateOrder).Methods(http.MethodPost).Name("create_order")
	api.HandleFunc("/orders/{id}", h.handleGetOrder).Methods(http.MethodGet).Name("get_order")
	api.HandleFunc("/orders/{id}/items", h.handleAddItem).Methods(http.MethodPost).Name("add_item")
	r.Handle("/metrics", h.metrics.Handler()).Methods(http.MethodGet).Name("metrics")

	r.Use(h.instrument)
	// Middleware only runs on matched routes.
	r.NotFoundHandler = h.observe(http.HandlerFunc(h.handleNoRoute), fixedRoute("not_found"))
	r.MethodNotAllowedHandler = h.observe(http.HandlerFunc(h.handleBadMethod), fixedRoute("method_not_allowed"))
	return r
}

type createOrderRequest struct {
	OrderID  string              `json:"order_id"`
	Currency string              `json:"currency"`
	Items    []service.LineInput `json:"items"`
}

type addItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.OrderID) == "" {
		req.OrderID = uuid.New().String()
	}

	res := h.orders.CreateOrder(r.Context(), service.CreateOrderInput{
		OrderID:  req.OrderID,
		Currency: req.Currency,
		Items:    req.Items,
	})
	h.respond(w, res, http.StatusCreated)
}

func (h *Handler) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	res := h.orders.AddItemToOrder(r.Context(), service.AddItemInput{
		OrderID:  mux.Vars(r)["id"],
		SKU:      req.SKU,
		Quantity: req.Quantity,
	})
	h.respond(w, res, http.StatusOK)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	h.respond(w, h.orders.GetOrder(r.Context(), mux.Vars(r)["id"]), http.StatusOK)
}

func (h *Handler) handleNoRoute(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, &apperr.NotFound{Resource: "route", ID: r.URL.Path})
}

func (h *Handler) handleBadMethod(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusMethodNotAllowed, map[string]errorBody{"error": {
		Type:    "method_not_allowed",
		Message: fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path),
	}})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.writeError(w, &apperr.Validation{
			Message: "invalid request body",
			Details: map[string]string{"body": err.Error()},
			Cause:   err,
		})
		return false
	}
	return true
}

func (h *Handler) respond(w http.ResponseWriter, res service.OrderResult, okStatus int) {
	if order, ok := res.Value(); ok {
		h.writeJSON(w, okStatus, service.NewOrderView(order))
		return
	}
	appErr, _ := res.Err()
	h.writeError(w, appErr)
}

type errorBody struct {
	Type     apperr.Kind       `json:"type"`
	Message  string            `json:"message"`
	Resource string            `json:"resource,omitempty"`
	ID       string            `json:"id,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindInfra:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, appErr apperr.AppError) {
	body := errorBody{Type: appErr.Kind(), Message: appErr.Error()}
	switch e := appErr.(type) {
	case *apperr.Validation:
		body.Details = e.Details
		if body.Details == nil {
			body.Details = validationDetails(e)
		}
	case *apperr.NotFound:
		body.Resource, body.ID = e.Resource, e.ID
	case *apperr.Conflict:
		body.Resource, body.ID = e.Resource, e.ID
	case *apperr.Infra:
		// Collaborator messages stay in the logs.
		body.Message = "upstream dependency failed"
	}
	h.writeJSON(w, StatusFor(appErr.Kind()), map[string]errorBody{"error": body})
}

func validationDetails(e *apperr.Validation) map[string]string {
	var domainErr *entity.DomainError
	if !errors.As(e.Cause, &domainErr) {
		return nil
	}
	return map[string]string{"kind": string(domainErr.Kind)}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.WithError(err).Error("Failed to write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) instrument(next http.Handler) http.Handler {
	return h.observe(next, routeName)
}

func routeName(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil && cur.GetName() != "" {
		return cur.GetName()
	}
	return "unknown"
}

func fixedRoute(name string) func(*http.Request) string {
	return func(*http.Request) string { return name }
}

// observe logs the request and counts it under the route label.
func (h *Handler) observe(next http.Handler, route func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		h.metrics.HTTPRequests.WithLabelValues(route(r), strconv.Itoa(rec.status)).Inc()
		h.log.WithFields(logrus.Fields{
			"route":      route(r),
			"method":     r.Method,
			"url":        r.URL.String(),
			"remoteAddr": r.RemoteAddr,
			"status":     rec.status,
			"elapsed_ms": time.Since(start).Milliseconds(),
		}).Info("Handled request")
	})
}
