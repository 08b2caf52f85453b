package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/ikas-actions/pkg/action"
	"github.com/dukex/ikas-actions/pkg/credentials"
	"github.com/dukex/ikas-actions/pkg/session"
)

const (
	testClientSecret  = "client-secret"
	testSessionSecret = "session-secret"
)

// newFakeIkas serves listOrder with a single order for "order-1" and an
// empty list otherwise.
func newFakeIkas(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var body struct {
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")

		if body.OperationName == "getMerchant" {
			_, _ = w.Write([]byte(`{"data":{"getMerchant":{"id":"merchant-1","storeName":"Demo"}}}`))

			return
		}

		filter, _ := body.Variables["id"].(map[string]any)
		if filter["eq"] == "order-1" {
			_, _ = w.Write([]byte(`{"data":{"listOrder":{"data":[{"id":"order-1","orderNumber":"1001","orderedAt":1700000000000}]}}}`))

			return
		}

		_, _ = w.Write([]byte(`{"data":{"listOrder":{"data":[]}}}`))
	}))

	t.Cleanup(server.Close)

	return server
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := credentials.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), &credentials.Credential{
		AuthorizedAppID: "app-1",
		MerchantID:      "merchant-1",
		AccessToken:     "token-1",
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	api, err := NewAPI(logger, store, nil, APIConfig{
		ClientSecret:  testClientSecret,
		SessionSecret: testSessionSecret,
		IkasEndpoint:  newFakeIkas(t).URL,
	})
	require.NoError(t, err)

	return api.App()
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, []byte) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func actionRequest(t *testing.T, path, data string) *http.Request {
	t.Helper()

	body, err := json.Marshal(action.Request{
		Signature:       action.Sign(data, testClientSecret),
		AuthorizedAppID: "app-1",
		MerchantID:      "merchant-1",
		Data:            data,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ikas actions", string(body))
}

func TestAPI_Liveness(t *testing.T) {
	app := setupTestApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", string(body))
}

func TestAPI_Health(t *testing.T) {
	app := setupTestApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"status":"healthy"`)
}

func TestAPI_OrderDetail(t *testing.T) {
	app := setupTestApp(t)

	status, body := do(t, app, actionRequest(t, "/api/actions/order-detail", `{"actionRunId":"run-1","idList":["order-1"]}`))

	require.Equal(t, http.StatusOK, status, string(body))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "order-1", payload["orderId"])
	assert.Equal(t, "1001", payload["orderNumber"])
	assert.Equal(t, "run-1", payload["actionRunId"])
}

func TestAPI_OrderDetail_NotFound(t *testing.T) {
	app := setupTestApp(t)

	status, body := do(t, app, actionRequest(t, "/api/actions/order-detail", `{"actionRunId":"run-1","idList":["missing"]}`))

	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"success":false,"message":"Order not found","error":"Order not found"}`, string(body))
}

func TestAPI_OrderList(t *testing.T) {
	app := setupTestApp(t)

	status, body := do(t, app, actionRequest(t, "/api/ikas/actions/order-list", `{"actionRunId":"run-2","idList":["order-1","missing"]}`))

	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{
		"success": true,
		"message": "1 orders retrieved successfully",
		"actionRunId": "run-2",
		"totalOrders": 2,
		"successCount": 1,
		"failedCount": 1,
		"orders": [{"id": "order-1", "orderNumber": "1001"}],
		"failedOrderIds": ["missing"]
	}`, string(body))
}

func TestAPI_DashboardRequiresSession(t *testing.T) {
	app := setupTestApp(t)

	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/ikas/get-order?orderId=order-1", nil))
	assert.Equal(t, http.StatusUnauthorized, status)

	token, err := session.NewManager(testSessionSecret, 0).Issue("app-1", "merchant-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/ikas/get-order?orderId=order-1", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	status, body := do(t, app, req)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"orderNumber":"1001"`)

	req = httptest.NewRequest(http.MethodGet, "/api/ikas/get-merchant", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	status, body = do(t, app, req)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"data":{"merchant":{"id":"merchant-1","storeName":"Demo"}}}`, string(body))
}

func TestAPI_OrderListNotBehindSession(t *testing.T) {
	app := setupTestApp(t)

	status, _ := do(t, app, actionRequest(t, "/api/ikas/actions/order-list", `{"actionRunId":"run-3","idList":["order-1"]}`))

	assert.Equal(t, http.StatusOK, status)
}
