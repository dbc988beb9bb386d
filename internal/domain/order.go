package domain

// Order — запись о покупке.
//
// Сущность не проверяет собственные инварианты: валидация входных данных
// выполняется контроллером. Указатель *Order является общим дескриптором:
// репозиторий хранит канонический указатель, а все поиски возвращают его же,
// поэтому изменение полей через любой дескриптор видно всем держателям.
type Order struct {
	// ID — целочисленный идентификатор заказа.
	ID int64
	// OrderNo — бизнес-ключ заказа (уникальность не гарантируется).
	OrderNo string
	// Customer — имя клиента.
	Customer string
	// Amount — сумма заказа, предполагается неотрицательной.
	Amount float64
}

// NewOrder создаёт заказ с заданными полями.
func NewOrder(id int64, orderNo, customer string, amount float64) *Order {
	return &Order{
		ID:       id,
		OrderNo:  orderNo,
		Customer: customer,
		Amount:   amount,
	}
}

// Snapshot возвращает отвязанную копию заказа.
// Используется для событий и ответов транспорта, но не для обновлений.
func (o *Order) Snapshot() OrderSnapshot {
	if o == nil {
		return OrderSnapshot{}
	}
	return OrderSnapshot{
		ID:       o.ID,
		OrderNo:  o.OrderNo,
		Customer: o.Customer,
		Amount:   o.Amount,
	}
}

// OrderSnapshot — неизменяемое представление заказа на момент чтения.
type OrderSnapshot struct {
	ID       int64   `json:"id"`
	OrderNo  string  `json:"order_no"`
	Customer string  `json:"customer"`
	Amount   float64 `json:"amount"`
}
