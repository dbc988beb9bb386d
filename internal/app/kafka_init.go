package app

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/messaging/kafka"
)

var newKafkaProducer = kafka.NewProducer

// initKafkaProducer создаёт producer, если заданы брокеры.
// Ошибка подключения не фатальна: сервис продолжает работу без Kafka.
func initKafkaProducer(brokers []string, logger *log.Entry) (*kafka.Producer, error) {
	if len(brokers) == 0 {
		return nil, nil
	}

	producer, err := newKafkaProducer(brokers)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil, err
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer, nil
}

// closeKafka закрывает producer, если он создан.
func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}

	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("failed to close kafka producer")
	} else {
		logger.Info("kafka producer closed")
	}
}
