// Package controller связывает намерения вызывающей стороны с репозиторием
// заказов и представлением.
package controller

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
	"github.com/vladislavdragonenkov/ordermvc/internal/metrics"
)

// Сообщения, которые видит пользователь.
const (
	MsgInvalidID         = "Invalid id"
	MsgInvalidOrderNo    = "Invalid order number"
	MsgOrderNotFound     = "Order not found"
	MsgAmountNotPositive = "Amount must be positive"
	MsgCustomerRequired  = "Customer name cannot be empty"
	MsgNoOrders          = "No orders available."
)

const (
	opCreate         = "create"
	opGetByID        = "get_by_id"
	opGetByOrderNo   = "get_by_order_no"
	opUpdateAmount   = "update_amount"
	opUpdateCustomer = "update_customer"
	opDelete         = "delete"
	opList           = "list"
	opRefresh        = "refresh"
)

// Recorder учитывает операции контроллера.
type Recorder interface {
	RecordOperation(operation, result string, duration time.Duration)
	SetOrdersStored(count int)
	RecordDuplicateOrderNo()
}

type noopRecorder struct{}

func (noopRecorder) RecordOperation(string, string, time.Duration) {}
func (noopRecorder) SetOrdersStored(int)                           {}
func (noopRecorder) RecordDuplicateOrderNo()                       {}

// Option настраивает OrderController.
type Option func(*OrderController)

// WithLogger задаёт logger контроллера.
func WithLogger(logger *log.Entry) Option {
	return func(c *OrderController) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics задаёт получателя метрик.
func WithMetrics(recorder Recorder) Option {
	return func(c *OrderController) {
		if recorder != nil {
			c.metrics = recorder
		}
	}
}

// WithListeners регистрирует слушателей изменений заказов.
func WithListeners(listeners ...domain.OrderListener) Option {
	return func(c *OrderController) {
		for _, l := range listeners {
			if l != nil {
				c.listeners = append(c.listeners, l)
			}
		}
	}
}

// OrderController — оркестратор без собственного состояния заказов.
// Представление и репозиторий не принадлежат контроллеру.
// Контроллер не потокобезопасен; для конкурентного доступа используйте Synchronized.
type OrderController struct {
	view      domain.OrderView
	repo      domain.OrderRepository
	logger    *log.Entry
	metrics   Recorder
	listeners []domain.OrderListener
	now       func() time.Time
}

// New создаёт контроллер поверх view и repo.
func New(view domain.OrderView, repo domain.OrderRepository, options ...Option) *OrderController {
	c := &OrderController{
		view:    view,
		repo:    repo,
		logger:  log.WithField("component", "order-controller"),
		metrics: noopRecorder{},
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// CreateOrder создаёт заказ и сохраняет его. Проверок нет, ошибки невозможны.
// Повтор номера заказа не отклоняется, но попадает в лог и метрики.
func (c *OrderController) CreateOrder(id int64, orderNo, customer string, amount float64) *domain.Order {
	start := time.Now()

	if c.repo.FindByOrderNo(orderNo) != nil {
		c.logger.WithField("order_no", orderNo).Warn("order number already exists, lookups will keep returning the first order")
		c.metrics.RecordDuplicateOrderNo()
	}

	order := domain.NewOrder(id, orderNo, customer, amount)
	c.repo.Persist(order)
	c.metrics.SetOrdersStored(c.repo.Len())

	c.logger.WithFields(log.Fields{"id": id, "order_no": orderNo}).Debug("order created")
	c.notify(domain.OrderEventCreated, order)
	c.observe(opCreate, start, nil)
	return order
}

// GetByID возвращает заказ по id. При промахе показывает ошибку и возвращает ErrInvalidID.
func (c *OrderController) GetByID(id int64) (*domain.Order, error) {
	start := time.Now()

	order := c.repo.FindByID(id)
	if order == nil {
		c.view.ShowError(MsgInvalidID)
		err := fmt.Errorf("get order %d: %w", id, domain.ErrInvalidID)
		c.observe(opGetByID, start, err)
		return nil, err
	}

	c.observe(opGetByID, start, nil)
	return order, nil
}

// GetByOrderNo возвращает заказ по номеру. При промахе показывает ошибку и возвращает ErrInvalidOrderNo.
func (c *OrderController) GetByOrderNo(orderNo string) (*domain.Order, error) {
	start := time.Now()

	order := c.repo.FindByOrderNo(orderNo)
	if order == nil {
		c.view.ShowError(MsgInvalidOrderNo)
		err := fmt.Errorf("get order %q: %w", orderNo, domain.ErrInvalidOrderNo)
		c.observe(opGetByOrderNo, start, err)
		return nil, err
	}

	c.observe(opGetByOrderNo, start, nil)
	return order, nil
}

// UpdateAmount меняет сумму найденного заказа на месте. Сумма должна быть больше нуля.
func (c *OrderController) UpdateAmount(orderNo string, amount float64) error {
	start := time.Now()

	order := c.repo.FindByOrderNo(orderNo)
	if order == nil {
		return c.fail(opUpdateAmount, start, MsgOrderNotFound, fmt.Errorf("update amount of %q: %w", orderNo, domain.ErrOrderNotFound))
	}
	// NaN тоже отклоняется.
	if !(amount > 0) {
		return c.fail(opUpdateAmount, start, MsgAmountNotPositive, fmt.Errorf("update amount of %q: %w", orderNo, domain.ErrAmountNotPositive))
	}

	order.Amount = amount

	c.logger.WithFields(log.Fields{"order_no": orderNo, "amount": amount}).Debug("order amount updated")
	c.notify(domain.OrderEventAmountUpdated, order)
	c.observe(opUpdateAmount, start, nil)
	return nil
}

// UpdateCustomer меняет клиента найденного заказа на месте. Имя не может быть пустым.
func (c *OrderController) UpdateCustomer(orderNo, customer string) error {
	start := time.Now()

	order := c.repo.FindByOrderNo(orderNo)
	if order == nil {
		return c.fail(opUpdateCustomer, start, MsgOrderNotFound, fmt.Errorf("update customer of %q: %w", orderNo, domain.ErrOrderNotFound))
	}
	if customer == "" {
		return c.fail(opUpdateCustomer, start, MsgCustomerRequired, fmt.Errorf("update customer of %q: %w", orderNo, domain.ErrCustomerRequired))
	}

	order.Customer = customer

	c.logger.WithFields(log.Fields{"order_no": orderNo, "customer": customer}).Debug("order customer updated")
	c.notify(domain.OrderEventCustomerUpdated, order)
	c.observe(opUpdateCustomer, start, nil)
	return nil
}

// DeleteOrder удаляет все заказы с указанным номером.
func (c *OrderController) DeleteOrder(orderNo string) error {
	start := time.Now()

	removed := c.repo.FindByOrderNo(orderNo)
	if removed == nil || !c.repo.RemoveByOrderNo(orderNo) {
		return c.fail(opDelete, start, MsgOrderNotFound, fmt.Errorf("delete order %q: %w", orderNo, domain.ErrOrderNotFound))
	}
	c.metrics.SetOrdersStored(c.repo.Len())

	c.view.ShowMessage(fmt.Sprintf("Order %s deleted successfully.", orderNo))
	c.logger.WithField("order_no", orderNo).Debug("order deleted")
	c.notify(domain.OrderEventDeleted, removed)
	c.observe(opDelete, start, nil)
	return nil
}

// ListAllOrders выводит все заказы в порядке вставки и возвращает их.
func (c *OrderController) ListAllOrders() ([]*domain.Order, error) {
	start := time.Now()

	orders := c.repo.FindAll()
	if len(orders) == 0 {
		return nil, c.fail(opList, start, MsgNoOrders, domain.ErrNoOrders)
	}

	for _, order := range orders {
		c.view.Render(*order)
	}

	c.observe(opList, start, nil)
	return orders, nil
}

// RefreshView выводит текущее состояние заказа.
func (c *OrderController) RefreshView(orderNo string) error {
	start := time.Now()

	order := c.repo.FindByOrderNo(orderNo)
	if order == nil {
		return c.fail(opRefresh, start, MsgOrderNotFound, fmt.Errorf("refresh order %q: %w", orderNo, domain.ErrOrderNotFound))
	}

	c.view.Render(*order)
	c.observe(opRefresh, start, nil)
	return nil
}

func (c *OrderController) fail(operation string, start time.Time, message string, err error) error {
	c.view.ShowError(message)
	c.observe(operation, start, err)
	return err
}

func (c *OrderController) observe(operation string, start time.Time, err error) {
	c.metrics.RecordOperation(operation, resultOf(err), time.Since(start))
}

func (c *OrderController) notify(eventType domain.OrderEventType, order *domain.Order) {
	if len(c.listeners) == 0 {
		return
	}
	event := domain.OrderEvent{
		Type:     eventType,
		Order:    order.Snapshot(),
		Occurred: c.now(),
	}
	for _, l := range c.listeners {
		l.OnOrderEvent(event)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case domain.IsNotFound(err):
		return metrics.ResultNotFound
	case domain.IsInvalidInput(err):
		return metrics.ResultInvalid
	case errors.Is(err, domain.ErrNoOrders):
		return metrics.ResultEmpty
	default:
		return "error"
	}
}
