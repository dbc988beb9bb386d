package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/controller"
	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
	"github.com/vladislavdragonenkov/ordermvc/internal/health"
	"github.com/vladislavdragonenkov/ordermvc/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/ordermvc/internal/metrics"
	"github.com/vladislavdragonenkov/ordermvc/internal/service/journal"
	"github.com/vladislavdragonenkov/ordermvc/internal/storage/memory"
	"github.com/vladislavdragonenkov/ordermvc/internal/storage/postgres"
	"github.com/vladislavdragonenkov/ordermvc/internal/version"
	"github.com/vladislavdragonenkov/ordermvc/internal/view"
)

// Dependencies содержит собранный граф компонентов сервиса.
type Dependencies struct {
	Repo       domain.OrderRepository
	Journal    domain.JournalRepository
	Store      *postgres.Store
	Producer   *kafka.Producer
	Metrics    *metrics.OrderMetrics
	Controller *controller.Synchronized
	Health     *health.Handler
	Logger     *log.Entry
}

// NewDependencies собирает репозитории, слушателей и контроллер по конфигурации.
func NewDependencies(ctx context.Context, cfg Config, registerer prometheus.Registerer, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	journalRepo, store, err := initJournal(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{
		Repo:    memory.NewOrderRepository(),
		Journal: journalRepo,
		Store:   store,
		Metrics: metrics.NewOrderMetricsWithRegisterer(registerer),
		Health:  health.NewHandler(version.GetVersion()),
		Logger:  logger,
	}

	listeners := []domain.OrderListener{
		journal.NewRecorder(journalRepo, logger.WithField("layer", "journal"), deps.Metrics),
	}
	if producer, err := initKafkaProducer(cfg.KafkaBrokers, logger); err == nil && producer != nil {
		deps.Producer = producer
		listeners = append(listeners, kafka.NewEventPublisher(producer, cfg.KafkaTopic, logger.WithField("layer", "kafka")))
	}

	ctrl := controller.New(
		view.NewLogView(logger.WithField("layer", "view")),
		deps.Repo,
		controller.WithLogger(logger.WithField("layer", "controller")),
		controller.WithMetrics(deps.Metrics),
		controller.WithListeners(listeners...),
	)
	deps.Controller = controller.NewSynchronized(ctrl)

	deps.Health.RegisterChecker("orders", health.NewOrdersChecker(deps.Repo))
	if store != nil {
		deps.Health.RegisterChecker("journal", health.NewPingChecker("journal", store))
	}

	return deps, nil
}

func initJournal(ctx context.Context, cfg Config, logger *log.Entry) (domain.JournalRepository, *postgres.Store, error) {
	switch cfg.JournalDriver {
	case "", JournalDriverMemory:
		return memory.NewJournalRepository(), nil, nil
	case JournalDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres journal: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, nil, fmt.Errorf("migrate postgres journal: %w", err)
			}
		}
		logger.Info("order journal stored in postgres")
		return postgres.NewJournalRepository(store), store, nil
	default:
		return nil, nil, fmt.Errorf("unsupported journal driver %q", cfg.JournalDriver)
	}
}

// Close освобождает внешние подключения.
func (d *Dependencies) Close() {
	closeKafka(d.Producer, d.Logger)
	if d.Store != nil {
		if err := d.Store.Close(); err != nil {
			d.Logger.WithError(err).Warn("failed to close postgres store")
		}
	}
}
