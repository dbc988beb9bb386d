package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/app"
	"github.com/vladislavdragonenkov/ordermvc/internal/version"
)

const (
	envGRPCAddr            = "ORDERMVC_GRPC_ADDR"
	envHTTPAddr            = "ORDERMVC_HTTP_ADDR"
	envMetricsAddr         = "ORDERMVC_METRICS_ADDR"
	envJournalDriver       = "ORDERMVC_JOURNAL_DRIVER"
	envPostgresDSN         = "ORDERMVC_POSTGRES_DSN"
	envPostgresAutoMigrate = "ORDERMVC_POSTGRES_AUTO_MIGRATE"
	envKafkaBrokers        = "ORDERMVC_KAFKA_BROKERS"
	envKafkaTopic          = "ORDERMVC_KAFKA_TOPIC"
	envLogLevel            = "ORDERMVC_LOG_LEVEL"
)

type lookupFunc func(string) (string, bool)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level log.Level) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

// readConfigFromEnv читает ORDERMVC_* переменные. Некорректные значения
// не прерывают запуск: остаётся значение по умолчанию, а в warnings попадает причина.
func readConfigFromEnv(lookup lookupFunc) (app.Config, log.Level, []string) {
	cfg := app.DefaultConfig()
	level := log.InfoLevel
	var warnings []string

	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(envGRPCAddr); ok {
		cfg.GRPCAddr = v
	}
	if v, ok := get(envHTTPAddr); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := get(envMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	if v, ok := get(envJournalDriver); ok {
		switch driver := strings.ToLower(v); driver {
		case app.JournalDriverMemory, app.JournalDriverPostgres:
			cfg.JournalDriver = driver
		default:
			warnings = append(warnings, fmt.Sprintf("%s=%q is not supported, using %q", envJournalDriver, v, cfg.JournalDriver))
		}
	}
	if v, ok := get(envPostgresDSN); ok {
		cfg.PostgresDSN = v
	}
	if v, ok := get(envPostgresAutoMigrate); ok {
		if enabled, valid := parseBool(v); valid {
			cfg.PostgresAutoMigrate = enabled
		} else {
			warnings = append(warnings, fmt.Sprintf("%s=%q is not a boolean, using %t", envPostgresAutoMigrate, v, cfg.PostgresAutoMigrate))
		}
	}
	if v, ok := get(envKafkaBrokers); ok {
		for _, broker := range strings.Split(v, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}
	if v, ok := get(envKafkaTopic); ok {
		cfg.KafkaTopic = v
	}
	if v, ok := get(envLogLevel); ok {
		if parsed, err := log.ParseLevel(v); err == nil {
			level = parsed
		} else {
			warnings = append(warnings, fmt.Sprintf("%s=%q: %v, using %s", envLogLevel, v, err, level))
		}
	}

	return cfg, level, warnings
}

func parseBool(v string) (bool, bool) {
	switch strings.ToLower(v) {
	case "yes", "on":
		return true, true
	case "no", "off":
		return false, true
	}
	b, err := strconv.ParseBool(v)
	return b, err == nil
}

func main() {
	cfg, level, warnings := readConfigFromEnv(os.LookupEnv)
	setupLogger(level)
	for _, warning := range warnings {
		log.Warn(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"grpc_addr":      cfg.GRPCAddr,
		"http_addr":      cfg.HTTPAddr,
		"metrics_addr":   cfg.MetricsAddr,
		"journal_driver": cfg.JournalDriver,
		"kafka_enabled":  len(cfg.KafkaBrokers) > 0,
		"build":          version.String(),
	}).Info("запускаем сервис заказов")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("сервис заказов остановлен")
}
