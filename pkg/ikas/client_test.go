package ikas

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Authorization string
	Body          graphqlRequest
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	recorded := &recordedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		recorded.Authorization = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&recorded.Body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))

	t.Cleanup(server.Close)

	return server, recorded
}

func TestClient_FetchOrderByID(t *testing.T) {
	server, recorded := newTestServer(t, http.StatusOK, `{
		"data": {
			"listOrder": {
				"data": [{
					"id": "order-1",
					"orderNumber": "1001",
					"orderedAt": 1700000000000,
					"status": "CREATED",
					"orderPaymentStatus": "PAID",
					"totalFinalPrice": 149.9,
					"currencyCode": "TRY",
					"customer": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
					"shippingAddress": {"addressLine1": "Main St 1", "city": {"name": "Istanbul"}, "country": {"name": "Turkey"}},
					"orderLineItems": [{"id": "li-1", "quantity": 2, "finalPrice": 74.95, "variant": {"id": "v-1", "name": "Mug", "sku": "MUG-1"}}]
				}]
			}
		}
	}`)

	client := NewClient(Config{Endpoint: server.URL}, "Bearer token-1")

	order, err := client.FetchOrderByID(context.Background(), "order-1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-1", recorded.Authorization)
	assert.Equal(t, "listOrder", recorded.Body.OperationName)
	assert.Equal(t, map[string]any{"id": map[string]any{"eq": "order-1"}}, recorded.Body.Variables)

	assert.Equal(t, "order-1", order.ID)
	assert.Equal(t, "1001", order.OrderNumber)
	assert.Equal(t, "Ada Lovelace", order.CustomerName())
	assert.Equal(t, 1, order.ItemCount())
	assert.Equal(t, "Main St 1, Istanbul, Turkey", order.ShippingAddress.Summary())
	assert.Equal(t, time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC), order.OrderedTime())
}

func TestClient_FetchOrderByID_NotFound(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"data": {"listOrder": {"data": []}}}`)

	client := NewClient(Config{Endpoint: server.URL}, "Bearer token")

	order, err := client.FetchOrderByID(context.Background(), "missing")
	assert.Nil(t, order)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.NotErrorIs(t, err, ErrUpstream)
}

func TestClient_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
	}{
		{name: "http error status", status: http.StatusUnauthorized, response: `{"errors":[{"message":"unauthorized"}]}`},
		{name: "graphql errors", status: http.StatusOK, response: `{"data":null,"errors":[{"message":"invalid token"}]}`},
		{name: "invalid body", status: http.StatusOK, response: `not json`},
		{name: "null data", status: http.StatusOK, response: `{"data":null}`},
		{name: "missing listOrder", status: http.StatusOK, response: `{"data":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.status, tt.response)
			client := NewClient(Config{Endpoint: server.URL}, "Bearer token")

			_, err := client.FetchOrderByID(context.Background(), "order-1")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUpstream)
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewClient(Config{Endpoint: endpoint, Timeout: time.Second}, "Bearer token")

	_, err := client.GetMerchant(context.Background())
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestClient_GetMerchant(t *testing.T) {
	server, recorded := newTestServer(t, http.StatusOK,
		`{"data":{"getMerchant":{"id":"merchant-1","email":"owner@example.com","storeName":"Demo"}}}`)

	merchant, err := NewClient(Config{Endpoint: server.URL}, "Bearer token").GetMerchant(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "getMerchant", recorded.Body.OperationName)
	assert.Nil(t, recorded.Body.Variables)
	assert.Equal(t, &Merchant{ID: "merchant-1", Email: "owner@example.com", StoreName: "Demo"}, merchant)
}

func TestClient_GetAuthorizedApp(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK,
		`{"data":{"getAuthorizedApp":{"id":"app-1","salesChannelId":"sc-1"}}}`)

	app, err := NewClient(Config{Endpoint: server.URL}, "Bearer token").GetAuthorizedApp(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &AuthorizedApp{ID: "app-1", SalesChannelID: "sc-1"}, app)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{}, "")

	assert.Equal(t, DefaultEndpoint, client.endpoint)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
}

func TestOrder_Helpers(t *testing.T) {
	order := &Order{Customer: &Customer{FullName: "Grace Hopper", FirstName: "Grace"}}
	assert.Equal(t, "Grace Hopper", order.CustomerName())
	assert.True(t, order.OrderedTime().IsZero())

	assert.Equal(t, "", (&Order{}).CustomerName())

	var address *Address
	assert.Equal(t, "", address.Summary())
}
