package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/ordermvc/internal/messaging/kafka"
)

const (
	// JournalDriverMemory хранит журнал изменений в памяти процесса.
	JournalDriverMemory = "memory"
	// JournalDriverPostgres хранит журнал в PostgreSQL.
	JournalDriverPostgres = "postgres"
)

// Config описывает настройки запуска сервиса заказов.
type Config struct {
	GRPCAddr    string
	HTTPAddr    string
	MetricsAddr string

	JournalDriver       string
	PostgresDSN         string
	PostgresAutoMigrate bool

	// KafkaBrokers пустой — публикация событий в Kafka выключена.
	KafkaBrokers []string
	KafkaTopic   string
}

// DefaultConfig возвращает конфигурацию для локального запуска без внешних зависимостей.
func DefaultConfig() Config {
	return Config{
		GRPCAddr:            ":50051",
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		JournalDriver:       JournalDriverMemory,
		PostgresAutoMigrate: true,
		KafkaTopic:          kafka.TopicOrderEvents,
	}
}

// Validate проверяет согласованность настроек.
func (c Config) Validate() error {
	var errs []error

	for name, addr := range map[string]string{
		"grpc address":    c.GRPCAddr,
		"http address":    c.HTTPAddr,
		"metrics address": c.MetricsAddr,
	} {
		if strings.TrimSpace(addr) == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}

	switch c.JournalDriver {
	case JournalDriverMemory:
	case JournalDriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, errors.New("postgres dsn is required for postgres journal driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported journal driver %q", c.JournalDriver))
	}

	return errors.Join(errs...)
}
