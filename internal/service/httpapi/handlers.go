// Package httpapi отдаёт контроллер заказов как REST API.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// Orders — операции контроллера, доступные по сети (controller.Synchronized).
type Orders interface {
	CreateOrder(id int64, orderNo, customer string, amount float64) domain.OrderSnapshot
	GetByID(id int64) (domain.OrderSnapshot, error)
	GetByOrderNo(orderNo string) (domain.OrderSnapshot, error)
	UpdateAmount(orderNo string, amount float64) (domain.OrderSnapshot, error)
	UpdateCustomer(orderNo, customer string) (domain.OrderSnapshot, error)
	DeleteOrder(orderNo string) error
	ListAllOrders() ([]domain.OrderSnapshot, error)
}

type createOrderRequest struct {
	ID       int64   `json:"id"`
	OrderNo  string  `json:"order_no"`
	Customer string  `json:"customer"`
	Amount   float64 `json:"amount"`
}

type updateAmountRequest struct {
	Amount float64 `json:"amount"`
}

type updateCustomerRequest struct {
	Customer string `json:"customer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	orders  Orders
	journal domain.JournalRepository
	logger  *log.Entry
}

// Router собирает маршруты /api/v1/orders. journal может быть nil.
func Router(orders Orders, journal domain.JournalRepository, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	h := &handler{orders: orders, journal: journal, logger: logger}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1/orders").Subrouter()

	s.HandleFunc("", h.createOrder).Methods(http.MethodPost)
	s.HandleFunc("", h.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/by-id/{id:-?[0-9]+}", h.getByID).Methods(http.MethodGet)
	s.HandleFunc("/{orderNo}", h.getByOrderNo).Methods(http.MethodGet)
	s.HandleFunc("/{orderNo}", h.deleteOrder).Methods(http.MethodDelete)
	s.HandleFunc("/{orderNo}/amount", h.updateAmount).Methods(http.MethodPatch)
	s.HandleFunc("/{orderNo}/customer", h.updateCustomer).Methods(http.MethodPatch)
	s.HandleFunc("/{orderNo}/journal", h.listJournal).Methods(http.MethodGet)

	return logMiddleware(logger, r)
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.writeJSON(w, http.StatusCreated, h.orders.CreateOrder(req.ID, req.OrderNo, req.Customer, req.Amount))
}

// listOrders отвечает пустым массивом, если заказов нет.
func (h *handler) listOrders(w http.ResponseWriter, _ *http.Request) {
	orders, err := h.orders.ListAllOrders()
	if errors.Is(err, domain.ErrNoOrders) {
		orders = []domain.OrderSnapshot{}
	} else if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *handler) getByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "id must be an integer"})
		return
	}
	order, err := h.orders.GetByID(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *handler) getByOrderNo(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetByOrderNo(mux.Vars(r)["orderNo"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *handler) updateAmount(w http.ResponseWriter, r *http.Request) {
	var req updateAmountRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateAmount(mux.Vars(r)["orderNo"], req.Amount)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	var req updateCustomerRequest
	if !h.decode(w, r, &req) {
		return
	}
	order, err := h.orders.UpdateCustomer(mux.Vars(r)["orderNo"], req.Customer)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, order)
}

func (h *handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.DeleteOrder(mux.Vars(r)["orderNo"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listJournal(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "order journal is not configured"})
		return
	}
	orderNo := mux.Vars(r)["orderNo"]
	entries, err := h.journal.List(orderNo)
	if err != nil {
		h.logger.WithError(err).WithField("order_no", orderNo).Error("failed to list journal")
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list journal"})
		return
	}
	if entries == nil {
		entries = []domain.JournalEntry{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case domain.IsNotFound(err), errors.Is(err, domain.ErrNoOrders):
		code = http.StatusNotFound
	case domain.IsInvalidInput(err):
		code = http.StatusBadRequest
	default:
		h.logger.WithError(err).Error("order request failed")
	}
	h.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (h *handler) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.WithError(err).Error("write response")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logMiddleware(logger *log.Entry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.WithFields(log.Fields{
			"method":      r.Method,
			"url":         r.URL.String(),
			"remote_addr": r.RemoteAddr,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("http request")
	})
}
