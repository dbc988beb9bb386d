// Package health отдаёт HTTP-пробы сервиса заказов.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Status представляет статус компонента
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

const defaultCheckTimeout = 2 * time.Second

// Check — результат проверки одного компонента.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response — тело ответа /healthz.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// Checker проверяет один компонент.
type Checker interface {
	Check(ctx context.Context) Check
}

// Pinger — компонент, доступность которого проверяется пингом (PostgreSQL store).
type Pinger interface {
	Ping(ctx context.Context) error
}

// OrderCounter отдаёт текущий размер коллекции заказов.
type OrderCounter interface {
	Len() int
}

type namedChecker struct {
	name    string
	checker Checker
}

// Handler собирает проверки и отдаёт /healthz и /readyz.
type Handler struct {
	mu        sync.RWMutex
	checkers  []namedChecker
	version   string
	startTime time.Time
	timeout   time.Duration
}

// NewHandler создаёт health handler.
func NewHandler(version string) *Handler {
	return &Handler{
		version:   version,
		startTime: time.Now(),
		timeout:   defaultCheckTimeout,
	}
}

// RegisterChecker добавляет проверку. Повторная регистрация имени заменяет прежнюю.
func (h *Handler) RegisterChecker(name string, checker Checker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.checkers {
		if h.checkers[i].name == name {
			h.checkers[i].checker = checker
			return
		}
	}
	h.checkers = append(h.checkers, namedChecker{name: name, checker: checker})
}

func (h *Handler) runChecks(ctx context.Context) (Status, map[string]Check) {
	h.mu.RLock()
	checkers := append([]namedChecker(nil), h.checkers...)
	h.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	overall := StatusHealthy
	checks := make(map[string]Check, len(checkers))
	for _, nc := range checkers {
		check := nc.checker.Check(ctx)
		checks[nc.name] = check

		switch {
		case check.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case check.Status == StatusDegraded && overall == StatusHealthy:
			overall = StatusDegraded
		}
	}
	return overall, checks
}

// ServeHTTP отвечает JSON-отчётом; 503, если хоть одна проверка unhealthy.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	overall, checks := h.runChecks(r.Context())

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Response{
		Status:        overall,
		Timestamp:     time.Now().UTC(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// ReadinessHandler отвечает "ready" или 503 "not ready".
func (h *Handler) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if overall, _ := h.runChecks(r.Context()); overall == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LivenessHandler всегда отвечает 200.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// CheckFunc превращает функцию в Checker.
type CheckFunc func(ctx context.Context) error

// Check выполняет функцию и замеряет время.
func (f CheckFunc) Check(ctx context.Context) Check {
	start := time.Now()
	err := f(ctx)
	check := Check{Status: StatusHealthy, DurationMs: time.Since(start).Milliseconds()}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}

// PingChecker проверяет внешнее хранилище пингом.
type PingChecker struct {
	name   string
	pinger Pinger
}

// NewPingChecker создаёт проверку для хранилища журнала.
func NewPingChecker(name string, pinger Pinger) *PingChecker {
	return &PingChecker{name: name, pinger: pinger}
}

// Check пингует хранилище.
func (c *PingChecker) Check(ctx context.Context) Check {
	check := CheckFunc(c.pinger.Ping).Check(ctx)
	check.Name = c.name
	return check
}

// OrdersChecker сообщает количество заказов в репозитории.
// Пустой репозиторий отмечается как degraded, но сервис остаётся готовым.
type OrdersChecker struct {
	counter OrderCounter
}

// NewOrdersChecker создаёт проверку репозитория заказов.
func NewOrdersChecker(counter OrderCounter) *OrdersChecker {
	return &OrdersChecker{counter: counter}
}

// Check читает размер коллекции.
func (c *OrdersChecker) Check(context.Context) Check {
	n := c.counter.Len()
	check := Check{Name: "orders", Status: StatusHealthy, Message: fmt.Sprintf("%d orders stored", n)}
	if n == 0 {
		check.Status = StatusDegraded
	}
	return check
}
