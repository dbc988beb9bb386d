package grpcsvc

import "github.com/vladislavdragonenkov/ordermvc/internal/domain"

type CreateOrderRequest struct {
	ID       int64   `json:"id"`
	OrderNo  string  `json:"order_no"`
	Customer string  `json:"customer"`
	Amount   float64 `json:"amount"`
}

// GetOrderRequest ищет заказ либо по id, либо по номеру; задаётся ровно одно поле.
type GetOrderRequest struct {
	ID      *int64 `json:"id,omitempty"`
	OrderNo string `json:"order_no,omitempty"`
}

type UpdateAmountRequest struct {
	OrderNo string  `json:"order_no"`
	Amount  float64 `json:"amount"`
}

type UpdateCustomerRequest struct {
	OrderNo  string `json:"order_no"`
	Customer string `json:"customer"`
}

type DeleteOrderRequest struct {
	OrderNo string `json:"order_no"`
}

type DeleteOrderResponse struct {
	OrderNo string `json:"order_no"`
	Deleted bool   `json:"deleted"`
}

type ListOrdersRequest struct{}

type ListOrdersResponse struct {
	Orders []domain.OrderSnapshot `json:"orders"`
}

type ListJournalRequest struct {
	OrderNo string `json:"order_no"`
}

type ListJournalResponse struct {
	Entries []domain.JournalEntry `json:"entries"`
}

// OrderResponse возвращает состояние заказа после операции.
type OrderResponse struct {
	Order domain.OrderSnapshot `json:"order"`
}
