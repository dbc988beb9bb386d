package domain

import "time"

// JournalEntry — запись журнала изменений заказа.
type JournalEntry struct {
	ID       string         `json:"id"`
	OrderID  int64          `json:"order_id"`
	OrderNo  string         `json:"order_no"`
	Type     OrderEventType `json:"type"`
	Detail   string         `json:"detail"`
	Occurred time.Time      `json:"occurred"`
}
