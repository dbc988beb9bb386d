package domain

import "time"

// OrderView отображает заказы и сообщения об ошибках.
type OrderView interface {
	// Render выводит карточку заказа.
	Render(order Order)
	// ShowError выводит сообщение об ошибке, визуально выделенное.
	ShowError(message string)
	// ShowMessage выводит обычную статусную строку.
	ShowMessage(message string)
}

// OrderListener получает уведомления об изменениях заказов.
type OrderListener interface {
	OnOrderEvent(event OrderEvent)
}

// OrderListenerFunc позволяет использовать функцию как OrderListener.
type OrderListenerFunc func(event OrderEvent)

// OnOrderEvent вызывает f(event).
func (f OrderListenerFunc) OnOrderEvent(event OrderEvent) { f(event) }

// JournalRepository хранит журнал изменений заказов.
type JournalRepository interface {
	Append(entry JournalEntry) error
	List(orderNo string) ([]JournalEntry, error)
}

// OrderEventType задаёт тип изменения заказа.
type OrderEventType string

const (
	OrderEventCreated         OrderEventType = "order.created"
	OrderEventAmountUpdated   OrderEventType = "order.amount_updated"
	OrderEventCustomerUpdated OrderEventType = "order.customer_updated"
	OrderEventDeleted         OrderEventType = "order.deleted"
)

// OrderEvent описывает одно изменение заказа.
type OrderEvent struct {
	Type     OrderEventType
	Order    OrderSnapshot
	Occurred time.Time
}
