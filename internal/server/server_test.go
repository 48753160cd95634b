package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stockbook/internal/config"
	"stockbook/internal/forecast"
	"stockbook/internal/repository/memory"
	"stockbook/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

type api struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{AppEnv: "test", CORSOrigins: []string{"http://localhost:5173"}},
		JWT:    config.JWTConfig{Secret: "server-test-secret", TTL: time.Hour},
		GST:    config.GSTConfig{DefaultRate: decimal.NewFromInt(18)},
	}
	repos := memory.New().Repositories()
	predictor := forecast.NewPredictor(nil, time.Second, nil)
	svc := server.NewServices(cfg, repos, nil, predictor, zap.NewNop())
	if _, err := svc.Users.EnsureAdmin(context.Background(), "admin", "admin123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	a := &api{t: t, router: server.NewRouter(cfg, svc, nil, zap.NewNop())}
	a.token = a.login("admin", "admin123")
	return a
}

func (a *api) login(username, password string) string {
	a.t.Helper()
	var res struct {
		Token string `json:"token"`
	}
	a.call(http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": password}, http.StatusOK, &res)
	if res.Token == "" {
		a.t.Fatal("login returned no token")
	}
	return res.Token
}

// call performs a request with the current token, asserts the status and decodes data into out.
func (a *api) call(method, path string, body any, wantStatus int, out any) envelope {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	if w.Code != wantStatus {
		a.t.Fatalf("%s %s: status = %d, want %d, body %s", method, path, w.Code, wantStatus, w.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode envelope: %v", method, path, err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data %s: %v", method, path, env.Data, err)
		}
	}
	return env
}

type idOnly struct {
	ID string `json:"id"`
}

func TestHealthAndAuth(t *testing.T) {
	a := newAPI(t)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}

	a.call(http.MethodPost, "/api/auth/login", map[string]string{"username": "admin", "password": "wrong"}, http.StatusUnauthorized, nil)

	var me struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	a.call(http.MethodGet, "/api/auth/me", nil, http.StatusOK, &me)
	if me.Username != "admin" || me.Role != "admin" {
		t.Errorf("me = %+v", me)
	}

	token := a.token
	a.token = ""
	a.call(http.MethodGet, "/api/products", nil, http.StatusUnauthorized, nil)
	a.token = token
}

func TestStaffCannotWriteCatalogue(t *testing.T) {
	a := newAPI(t)
	a.call(http.MethodPost, "/api/users", map[string]string{
		"username": "clerk", "password": "secret1", "fullName": "Store Clerk", "role": "staff",
	}, http.StatusCreated, nil)
	a.call(http.MethodPost, "/api/users", map[string]string{
		"username": "clerk", "password": "secret1", "fullName": "Store Clerk", "role": "staff",
	}, http.StatusConflict, nil)

	a.token = a.login("clerk", "secret1")
	a.call(http.MethodGet, "/api/products", nil, http.StatusOK, nil)
	a.call(http.MethodPost, "/api/products", map[string]any{
		"name": "Pen", "sku": "PEN-1", "category": "Stationery", "unitPrice": "10",
	}, http.StatusForbidden, nil)
	a.call(http.MethodGet, "/api/audit-logs", nil, http.StatusForbidden, nil)
}

func TestCalculateGST(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name       string
		interState bool
		cgst, igst string
	}{
		{"intra-state", false, "18", "0"},
		{"inter-state", true, "0", "36"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Subtotal decimal.Decimal `json:"subtotal"`
				CGST     decimal.Decimal `json:"cgst"`
				SGST     decimal.Decimal `json:"sgst"`
				IGST     decimal.Decimal `json:"igst"`
				Total    decimal.Decimal `json:"total"`
			}
			a.call(http.MethodPost, "/api/calculate-gst", map[string]any{
				"unitPrice": 100, "quantity": 2, "gstRate": 18, "isInterState": tt.interState,
			}, http.StatusOK, &got)

			if !got.Subtotal.Equal(decimal.NewFromInt(200)) || !got.Total.Equal(decimal.NewFromInt(236)) {
				t.Errorf("subtotal %s total %s", got.Subtotal, got.Total)
			}
			if !got.CGST.Equal(decimal.RequireFromString(tt.cgst)) || !got.SGST.Equal(got.CGST) {
				t.Errorf("cgst %s sgst %s", got.CGST, got.SGST)
			}
			if !got.IGST.Equal(decimal.RequireFromString(tt.igst)) {
				t.Errorf("igst %s", got.IGST)
			}
		})
	}
}

func TestInventoryScanFlow(t *testing.T) {
	a := newAPI(t)

	var loc idOnly
	a.call(http.MethodPost, "/api/locations", map[string]string{"name": "Main", "type": "warehouse", "stateCode": "27"}, http.StatusCreated, &loc)
	a.call(http.MethodPost, "/api/locations", map[string]string{"name": "Bad", "type": "warehouse", "stateCode": "2"}, http.StatusBadRequest, nil)

	product := map[string]any{
		"name": "Notebook", "sku": "NB-1", "barcode": "111", "category": "Stationery",
		"unitPrice": "45.00", "reorderPoint": 10, "gstRate": "12",
	}
	var p idOnly
	a.call(http.MethodPost, "/api/products", product, http.StatusCreated, &p)
	a.call(http.MethodPost, "/api/products", product, http.StatusConflict, nil)
	a.call(http.MethodGet, "/api/barcode/111", nil, http.StatusOK, nil)
	a.call(http.MethodGet, "/api/barcode/999", nil, http.StatusNotFound, nil)
	a.call(http.MethodGet, "/api/products/not-a-uuid", nil, http.StatusBadRequest, nil)

	scan := func(barcode string, change int, want int) {
		t.Helper()
		a.call(http.MethodPost, "/api/inventory/scan", map[string]any{
			"barcode": barcode, "locationId": loc.ID, "quantityChange": change,
		}, want, nil)
	}
	scan("999", 5, http.StatusNotFound)
	scan("111", -1, http.StatusBadRequest)
	scan("111", 6, http.StatusCreated)
	scan("111", 4, http.StatusOK)
	scan("111", -11, http.StatusBadRequest)

	var rows []struct {
		Quantity int    `json:"quantity"`
		Status   string `json:"status"`
	}
	a.call(http.MethodGet, "/api/inventory?locationId="+loc.ID, nil, http.StatusOK, &rows)
	if len(rows) != 1 || rows[0].Quantity != 10 {
		t.Fatalf("inventory rows = %+v", rows)
	}
	if rows[0].Status != "Medium Stock" {
		t.Errorf("status = %q, want Medium Stock", rows[0].Status)
	}

	var stats struct {
		LowStockCount int             `json:"lowStockCount"`
		TotalValue    decimal.Decimal `json:"totalValue"`
	}
	a.call(http.MethodGet, "/api/dashboard/stats", nil, http.StatusOK, &stats)
	if stats.LowStockCount != 1 || !stats.TotalValue.Equal(decimal.NewFromInt(450)) {
		t.Errorf("stats = %+v", stats)
	}

	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int64             `json:"total"`
	}
	a.call(http.MethodGet, "/api/audit-logs", nil, http.StatusOK, &page)
	if page.Total < 3 {
		t.Errorf("audit total = %d, want at least 3", page.Total)
	}
}

func TestInvoicePaymentAndGSTSummary(t *testing.T) {
	a := newAPI(t)

	var store idOnly
	a.call(http.MethodPost, "/api/locations", map[string]string{"name": "Store", "type": "store", "stateCode": "29"}, http.StatusCreated, &store)
	var p idOnly
	a.call(http.MethodPost, "/api/products", map[string]any{
		"name": "Lamp", "sku": "LAMP-1", "category": "Home", "unitPrice": "100", "gstRate": "18",
	}, http.StatusCreated, &p)

	var invoice struct {
		ID            string          `json:"id"`
		InvoiceNumber string          `json:"invoiceNumber"`
		IGSTAmount    decimal.Decimal `json:"igstAmount"`
		TotalAmount   decimal.Decimal `json:"totalAmount"`
		Status        string          `json:"status"`
		Location      struct {
			Name string `json:"name"`
		} `json:"location"`
	}
	due := time.Now().UTC().AddDate(0, 0, 7)
	a.call(http.MethodPost, "/api/invoices", map[string]any{
		"customerName":  "Nashik Retail",
		"customerGstin": "27AAGCN8765M1Z3",
		"locationId":    store.ID,
		"dueDate":       due,
		"items":         []map[string]any{{"productId": p.ID, "quantity": 2}},
	}, http.StatusCreated, &invoice)

	if !invoice.IGSTAmount.Equal(decimal.NewFromInt(36)) || !invoice.TotalAmount.Equal(decimal.NewFromInt(236)) {
		t.Fatalf("invoice taxes igst %s total %s", invoice.IGSTAmount, invoice.TotalAmount)
	}
	if invoice.Status != "unpaid" || invoice.Location.Name != "Store" || invoice.InvoiceNumber == "" {
		t.Errorf("invoice = %+v", invoice)
	}
	a.call(http.MethodPost, "/api/invoices", map[string]any{
		"customerName": "Nobody", "locationId": store.ID, "items": []map[string]any{},
	}, http.StatusBadRequest, nil)

	var result struct {
		EntityStatus string          `json:"entityStatus"`
		PaidAmount   decimal.Decimal `json:"paidAmount"`
	}
	a.call(http.MethodPost, "/api/payments", map[string]any{
		"entityType": "invoice", "entityId": invoice.ID, "amount": "100", "paymentMethod": "cash",
	}, http.StatusCreated, &result)
	if result.EntityStatus != "partial" || !result.PaidAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("payment result = %+v", result)
	}
	a.call(http.MethodPost, "/api/payments", map[string]any{
		"entityType": "refund", "entityId": invoice.ID, "amount": "1", "paymentMethod": "cash",
	}, http.StatusBadRequest, nil)
	a.call(http.MethodPost, "/api/payments", map[string]any{
		"entityType": "invoice", "entityId": invoice.ID, "amount": "0", "paymentMethod": "cash",
	}, http.StatusBadRequest, nil)

	var summary struct {
		ToReceive decimal.Decimal `json:"toReceive"`
		Upcoming  []struct {
			EntityReference string `json:"entityReference"`
		} `json:"upcoming"`
	}
	a.call(http.MethodGet, "/api/payment-summary", nil, http.StatusOK, &summary)
	if !summary.ToReceive.Equal(decimal.NewFromInt(136)) || len(summary.Upcoming) != 1 {
		t.Errorf("summary = %+v", summary)
	}

	now := time.Now().UTC()
	var gst struct {
		OutwardSupplies struct {
			IGST decimal.Decimal `json:"igst"`
		} `json:"outwardSupplies"`
		NetTax struct {
			Total decimal.Decimal `json:"total"`
		} `json:"netTax"`
	}
	path := "/api/gst-summary?month=" + itoa(int(now.Month())) + "&year=" + itoa(now.Year())
	a.call(http.MethodGet, path, nil, http.StatusOK, &gst)
	if !gst.OutwardSupplies.IGST.Equal(decimal.NewFromInt(36)) || !gst.NetTax.Total.Equal(decimal.NewFromInt(36)) {
		t.Errorf("gst summary = %+v", gst)
	}
	a.call(http.MethodGet, "/api/gst-summary?month=13&year=2024", nil, http.StatusBadRequest, nil)
	a.call(http.MethodGet, "/api/gst-summary?month=abc", nil, http.StatusBadRequest, nil)
}

func TestSupplierOrderTransitions(t *testing.T) {
	a := newAPI(t)

	var supplier idOnly
	a.call(http.MethodPost, "/api/suppliers", map[string]any{"name": "Acme", "stateCode": "27"}, http.StatusCreated, &supplier)

	var order struct {
		ID          string          `json:"id"`
		Status      string          `json:"status"`
		TotalAmount decimal.Decimal `json:"totalAmount"`
	}
	a.call(http.MethodPost, "/api/supplier-orders", map[string]any{
		"order": map[string]any{"supplierId": supplier.ID, "totalAmount": "500"},
	}, http.StatusCreated, &order)
	if order.Status != "pending" || !order.TotalAmount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("order = %+v", order)
	}

	update := func(status string, want int) {
		t.Helper()
		a.call(http.MethodPut, "/api/supplier-orders/"+order.ID, map[string]string{"status": status}, want, nil)
	}
	update("delivered", http.StatusBadRequest)
	update("confirmed", http.StatusOK)
	update("shipped", http.StatusOK)
	update("pending", http.StatusBadRequest)
	update("lost", http.StatusBadRequest)

	var activity struct {
		Pending []json.RawMessage `json:"pending"`
		Updates []json.RawMessage `json:"updates"`
	}
	a.call(http.MethodGet, "/api/supplier-activity", nil, http.StatusOK, &activity)
	if len(activity.Pending) != 0 || len(activity.Updates) != 1 {
		t.Errorf("activity = %+v", activity)
	}
}

func itoa(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}

func TestSwaggerDocListsPaymentRoutes(t *testing.T) {
	a := newAPI(t)

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("doc.json status = %d", w.Code)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode doc.json: %v", err)
	}

	for path, methods := range map[string][]string{
		"/api/payments":        {"get", "post"},
		"/api/payments/{id}":   {"get"},
		"/api/payment-summary": {"get"},
	} {
		for _, m := range methods {
			if _, found := doc.Paths[path][m]; !found {
				t.Errorf("doc.json is missing %s %s", m, path)
			}
		}
	}
}
