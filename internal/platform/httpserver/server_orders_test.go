package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	orderservice "orderhub/contexts/order-management/order-service"
	"orderhub/contexts/order-management/order-service/domain/entities"
	orderhttp "orderhub/contexts/order-management/order-service/transport/http"
)

func newTestServer(seed ...entities.Order) *Server {
	module := orderservice.NewInMemoryModule(seed, nil)
	return New(module, nil, ":0")
}

func seedOrder(orderID string) entities.Order {
	return entities.NewOrder(orderID, "CUST-001", decimal.NewFromFloat(149.90), "PROD-001", time.Now().UTC())
}

func TestCreateOrderReturnsCreatedWithLocation(t *testing.T) {
	server := newTestServer()

	body := []byte(`{"orderId":"ORD-1001","customerId":"CUST-001","amount":149.90,"productCode":"PROD-001"}`)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	if location := rr.Header().Get("Location"); location != "/orders/ORD-1001" {
		t.Fatalf("expected Location /orders/ORD-1001, got %q", location)
	}

	var resp orderhttp.CreateOrderResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID != "ORD-1001" {
		t.Fatalf("expected orderId ORD-1001, got %q", resp.OrderID)
	}
}

func TestCreateOrderDuplicateReturnsConflictProblem(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"))

	body := []byte(`{"orderId":"ORD-1001","customerId":"CUST-002","amount":10,"productCode":"PROD-002"}`)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("expected problem content type, got %q", ct)
	}

	var problem Problem
	if err := json.Unmarshal(rr.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Title != "CONFLICT" || problem.Status != http.StatusConflict {
		t.Fatalf("unexpected problem %+v", problem)
	}
	if problem.Instance != "/orders" {
		t.Fatalf("expected instance /orders, got %q", problem.Instance)
	}
}

func TestCreateOrderRejectsMalformedIdentifiers(t *testing.T) {
	server := newTestServer()

	cases := []struct {
		name string
		body string
	}{
		{"bad order id", `{"orderId":"1001","customerId":"CUST-001","amount":10,"productCode":"PROD-001"}`},
		{"bad customer id", `{"orderId":"ORD-1001","customerId":"001","amount":10,"productCode":"PROD-001"}`},
		{"bad product code", `{"orderId":"ORD-1001","customerId":"CUST-001","amount":10,"productCode":"WIDGET"}`},
		{"non-positive amount", `{"orderId":"ORD-1001","customerId":"CUST-001","amount":0,"productCode":"PROD-001"}`},
		{"invalid json", `{"orderId":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte(tc.body)))
			rr := httptest.NewRecorder()
			server.mux.ServeHTTP(rr, req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestGetOrderReturnsOrder(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"))

	req := httptest.NewRequest(http.MethodGet, "/orders/ORD-1001", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp orderhttp.OrderData
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.OrderID != "ORD-1001" || resp.Status != "PENDING" {
		t.Fatalf("unexpected order %+v", resp)
	}
}

func TestGetOrderMissingReturnsNotFoundProblem(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/orders/ORD-9999", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}

	var problem Problem
	if err := json.Unmarshal(rr.Body.Bytes(), &problem); err != nil {
		t.Fatalf("decode problem: %v", err)
	}
	if problem.Title != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND title, got %q", problem.Title)
	}
	if problem.Extensions["orderId"] != "ORD-9999" {
		t.Fatalf("expected orderId extension, got %v", problem.Extensions)
	}
}

func TestGetAllOrdersReturnsSeededOrders(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"), seedOrder("ORD-1002"))

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp orderhttp.GetAllOrdersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(resp.Orders))
	}
}

func TestPutOrderUpdatesFields(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"))

	body := []byte(`{"customerId":"CUST-002","amount":99.50,"productCode":"PROD-002"}`)
	req := httptest.NewRequest(http.MethodPut, "/orders/ORD-1001", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp orderhttp.OrderData
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CustomerID != "CUST-002" || resp.ProductCode != "PROD-002" {
		t.Fatalf("unexpected order %+v", resp)
	}
}

func TestPatchOrderCompletesAndStampsProcessedAt(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"))

	body := []byte(`{"status":"COMPLETED"}`)
	req := httptest.NewRequest(http.MethodPatch, "/orders/ORD-1001", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	var resp orderhttp.OrderData
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "COMPLETED" {
		t.Fatalf("expected COMPLETED, got %q", resp.Status)
	}
	if resp.ProcessedAt == nil {
		t.Fatal("expected processedAt to be stamped on terminal transition")
	}
}

func TestPatchTerminalOrderIsRejected(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"))

	first := httptest.NewRequest(http.MethodPatch, "/orders/ORD-1001", bytes.NewReader([]byte(`{"status":"FAILED"}`)))
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, first)
	if rr.Code != http.StatusOK {
		t.Fatalf("setup transition failed: %d body=%s", rr.Code, rr.Body.String())
	}

	second := httptest.NewRequest(http.MethodPatch, "/orders/ORD-1001", bytes.NewReader([]byte(`{"status":"COMPLETED"}`)))
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, second)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on terminal re-transition, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestDeleteOrderReturnsNoContent(t *testing.T) {
	server := newTestServer(seedOrder("ORD-1001"))

	req := httptest.NewRequest(http.MethodDelete, "/orders/ORD-1001", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d body=%s", rr.Code, rr.Body.String())
	}

	followUp := httptest.NewRequest(http.MethodGet, "/orders/ORD-1001", nil)
	rr = httptest.NewRecorder()
	server.mux.ServeHTTP(rr, followUp)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestRequestIDIsGeneratedAndEchoed(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected a generated X-Request-Id")
	}

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("X-Request-Id", "req-42")
	rr = httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "req-42" {
		t.Fatalf("expected inbound request id to be echoed, got %q", got)
	}
}

func TestDeleteMissingOrderReturnsNotFound(t *testing.T) {
	server := newTestServer()

	req := httptest.NewRequest(http.MethodDelete, "/orders/ORD-9999", nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}
