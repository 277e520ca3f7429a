package httpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	orderservice "orderhub/contexts/order-management/order-service"
	orderhttp "orderhub/contexts/order-management/order-service/transport/http"
	"orderhub/internal/platform/result"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	orders orderservice.Module
}

func New(orders orderservice.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		orders: orders,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.Handler())
}

// Handler exposes the full middleware chain; tests drive it directly.
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.mux)
}

// withRequestID honours an inbound X-Request-Id and generates one otherwise,
// echoing it on the response so callers can correlate problem reports.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /orders", s.handleGetAllOrders)
	s.mux.HandleFunc("GET /orders/{order_id}", s.handleGetOrder)
	s.mux.HandleFunc("POST /orders", s.handleCreateOrder)
	s.mux.HandleFunc("PUT /orders/{order_id}", s.handleUpdateOrder)
	s.mux.HandleFunc("PATCH /orders/{order_id}", s.handlePatchOrder)
	s.mux.HandleFunc("DELETE /orders/{order_id}", s.handleDeleteOrder)
}

func (s *Server) handleGetAllOrders(w http.ResponseWriter, r *http.Request) {
	resp, failure := s.orders.Handler.GetAllOrdersHandler(r.Context())
	if failure != nil {
		writeProblem(w, r, failure)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")
	resp, failure := s.orders.Handler.GetOrderHandler(r.Context(), orderID)
	if failure != nil {
		writeProblem(w, r, failure)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderhttp.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, r, result.NewFailure(result.CodeValidation, "request body must be valid JSON"))
		return
	}

	resp, failure := s.orders.Handler.CreateOrderHandler(r.Context(), req)
	if failure != nil {
		writeProblem(w, r, failure)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/orders/%s", resp.OrderID))
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var req orderhttp.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, r, result.NewFailure(result.CodeValidation, "request body must be valid JSON"))
		return
	}

	orderID := r.PathValue("order_id")
	resp, failure := s.orders.Handler.UpdateOrderHandler(r.Context(), orderID, req)
	if failure != nil {
		writeProblem(w, r, failure)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePatchOrder(w http.ResponseWriter, r *http.Request) {
	var req orderhttp.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, r, result.NewFailure(result.CodeValidation, "request body must be valid JSON"))
		return
	}

	orderID := r.PathValue("order_id")
	resp, failure := s.orders.Handler.PatchOrderHandler(r.Context(), orderID, req)
	if failure != nil {
		writeProblem(w, r, failure)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("order_id")
	if failure := s.orders.Handler.DeleteOrderHandler(r.Context(), orderID); failure != nil {
		writeProblem(w, r, failure)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
