package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// TopicOrderEvents — topic по умолчанию для событий заказов.
const TopicOrderEvents = "ordermvc.order.events"

// OrderEvent — JSON-представление изменения заказа в Kafka
type OrderEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ID         int64     `json:"id"`
	OrderNo    string    `json:"order_no"`
	Customer   string    `json:"customer"`
	Amount     float64   `json:"amount"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewOrderEvent создает событие заказа из доменного события
func NewOrderEvent(event domain.OrderEvent) *OrderEvent {
	occurred := event.Occurred
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return &OrderEvent{
		EventID:    uuid.NewString(),
		EventType:  string(event.Type),
		ID:         event.Order.ID,
		OrderNo:    event.Order.OrderNo,
		Customer:   event.Order.Customer,
		Amount:     event.Order.Amount,
		OccurredAt: occurred,
	}
}
