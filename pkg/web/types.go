package web

import "github.com/dukex/ikas-actions/pkg/ikas"

// ActionErrorResponse is returned by action endpoints on failure.
type ActionErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// OrderDetailResponse is the body of a successful order-detail action.
type OrderDetailResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ActionRunID string `json:"actionRunId"`
	OrderID     string `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

// OrderSummary identifies one fetched order of a batch.
type OrderSummary struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`
}

// OrderListResponse is the body of an order-list action once the batch ran.
type OrderListResponse struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	ActionRunID    string         `json:"actionRunId"`
	TotalOrders    int            `json:"totalOrders"`
	SuccessCount   int            `json:"successCount"`
	FailedCount    int            `json:"failedCount"`
	Orders         []OrderSummary `json:"orders"`
	FailedOrderIDs []string       `json:"failedOrderIds,omitempty"`
}

// OrderData wraps the order returned to the dashboard.
type OrderData struct {
	Order *ikas.Order `json:"order"`
}

type GetOrderResponse struct {
	Data OrderData `json:"data"`
}

type MerchantData struct {
	Merchant *ikas.Merchant `json:"merchant"`
}

type GetMerchantResponse struct {
	Data MerchantData `json:"data"`
}
