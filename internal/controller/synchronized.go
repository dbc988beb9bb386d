package controller

import (
	"sync"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// Synchronized сериализует вызовы контроллера одним мьютексом,
// чтобы сетевые запросы выполнялись так же, как у единственного вызывающего.
// Наружу отдаются снимки заказов: указатели не покидают критическую секцию.
type Synchronized struct {
	mu   sync.Mutex
	ctrl *OrderController
}

// NewSynchronized оборачивает контроллер.
func NewSynchronized(ctrl *OrderController) *Synchronized {
	return &Synchronized{ctrl: ctrl}
}

func (s *Synchronized) CreateOrder(id int64, orderNo, customer string, amount float64) domain.OrderSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctrl.CreateOrder(id, orderNo, customer, amount).Snapshot()
}

func (s *Synchronized) GetByID(id int64) (domain.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.ctrl.GetByID(id)
	if err != nil {
		return domain.OrderSnapshot{}, err
	}
	return order.Snapshot(), nil
}

func (s *Synchronized) GetByOrderNo(orderNo string) (domain.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, err := s.ctrl.GetByOrderNo(orderNo)
	if err != nil {
		return domain.OrderSnapshot{}, err
	}
	return order.Snapshot(), nil
}

// UpdateAmount меняет сумму и возвращает состояние заказа после изменения.
func (s *Synchronized) UpdateAmount(orderNo string, amount float64) (domain.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.UpdateAmount(orderNo, amount); err != nil {
		return domain.OrderSnapshot{}, err
	}
	return s.ctrl.repo.FindByOrderNo(orderNo).Snapshot(), nil
}

// UpdateCustomer меняет клиента и возвращает состояние заказа после изменения.
func (s *Synchronized) UpdateCustomer(orderNo, customer string) (domain.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.UpdateCustomer(orderNo, customer); err != nil {
		return domain.OrderSnapshot{}, err
	}
	return s.ctrl.repo.FindByOrderNo(orderNo).Snapshot(), nil
}

func (s *Synchronized) DeleteOrder(orderNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctrl.DeleteOrder(orderNo)
}

func (s *Synchronized) ListAllOrders() ([]domain.OrderSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.ctrl.ListAllOrders()
	if err != nil {
		return nil, err
	}
	result := make([]domain.OrderSnapshot, 0, len(orders))
	for _, order := range orders {
		result = append(result, order.Snapshot())
	}
	return result, nil
}

func (s *Synchronized) RefreshView(orderNo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctrl.RefreshView(orderNo)
}
