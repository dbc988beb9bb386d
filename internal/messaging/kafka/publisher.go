package kafka

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// EventPublisher — слушатель контроллера, публикующий изменения заказов в Kafka.
// Ключ сообщения — номер заказа, чтобы события одного заказа шли в одну партицию.
type EventPublisher struct {
	producer *Producer
	topic    string
	logger   *log.Entry
}

// NewEventPublisher создаёт паблишер событий заказов.
func NewEventPublisher(producer *Producer, topic string, logger *log.Entry) *EventPublisher {
	if topic == "" {
		topic = TopicOrderEvents
	}
	if logger == nil {
		logger = log.WithField("component", "kafka-event-publisher")
	}
	return &EventPublisher{producer: producer, topic: topic, logger: logger}
}

// OnOrderEvent публикует событие. Ошибка публикации не прерывает операцию контроллера.
func (p *EventPublisher) OnOrderEvent(event domain.OrderEvent) {
	if p == nil || p.producer == nil {
		return
	}
	if err := p.producer.PublishEvent(p.topic, event.Order.OrderNo, NewOrderEvent(event)); err != nil {
		p.logger.WithError(err).WithFields(log.Fields{
			"order_no": event.Order.OrderNo,
			"type":     event.Type,
		}).Warn("order event was not published")
	}
}

var _ domain.OrderListener = (*EventPublisher)(nil)
