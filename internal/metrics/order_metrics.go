package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// ResultOK — операция завершилась успешно.
	ResultOK = "ok"
	// ResultNotFound — заказ не найден.
	ResultNotFound = "not_found"
	// ResultInvalid — некорректные входные данные.
	ResultInvalid = "invalid"
	// ResultEmpty — список заказов пуст.
	ResultEmpty = "empty"
)

// OrderMetrics содержит метрики операций контроллера заказов.
type OrderMetrics struct {
	operations        *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	ordersStored      prometheus.Gauge
	duplicateOrderNos prometheus.Counter
	journalFailures   prometheus.Counter
}

// NewOrderMetrics создаёт метрики в DefaultRegisterer.
func NewOrderMetrics() *OrderMetrics {
	return NewOrderMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewOrderMetricsWithRegisterer создаёт метрики в заданном реестре.
// Повторная регистрация возвращает уже существующие коллекторы.
func NewOrderMetricsWithRegisterer(registerer prometheus.Registerer) *OrderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &OrderMetrics{
		operations: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ordermvc_order_operations_total",
			Help: "Total number of order controller operations grouped by result",
		}, []string{"operation", "result"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "ordermvc_order_operation_duration_seconds",
			Help:    "Duration of order controller operations in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"operation"}),
		ordersStored: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "ordermvc_orders_stored",
			Help: "Number of orders currently held by the repository",
		}),
		duplicateOrderNos: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermvc_duplicate_order_numbers_total",
			Help: "Total number of orders created with an order number that already existed",
		}),
		journalFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ordermvc_journal_append_failures_total",
			Help: "Total number of journal entries that could not be stored",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOperation учитывает операцию контроллера и её длительность.
func (m *OrderMetrics) RecordOperation(operation, result string, duration time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetOrdersStored обновляет размер коллекции заказов.
func (m *OrderMetrics) SetOrdersStored(count int) {
	m.ordersStored.Set(float64(count))
}

// RecordDuplicateOrderNo увеличивает счётчик дублей номера заказа.
func (m *OrderMetrics) RecordDuplicateOrderNo() {
	m.duplicateOrderNos.Inc()
}

// RecordJournalFailure увеличивает счётчик неудачных записей журнала.
func (m *OrderMetrics) RecordJournalFailure() {
	m.journalFailures.Inc()
}
