package view

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// LogView отображает заказы структурированными записями logrus.
// Используется сервисом, у которого нет консоли пользователя.
type LogView struct {
	logger *log.Entry
}

// NewLogView создаёт представление поверх logger.
func NewLogView(logger *log.Entry) *LogView {
	if logger == nil {
		logger = log.WithField("component", "order-view")
	}
	return &LogView{logger: logger}
}

func (v *LogView) Render(order domain.Order) {
	v.logger.WithFields(log.Fields{
		"id":       order.ID,
		"order_no": order.OrderNo,
		"customer": order.Customer,
		"amount":   FormatAmount(order.Amount),
	}).Info("order details")
}

func (v *LogView) ShowError(message string) {
	v.logger.WithField("error", message).Warn("order operation failed")
}

func (v *LogView) ShowMessage(message string) {
	v.logger.Info(message)
}

var _ domain.OrderView = (*LogView)(nil)
