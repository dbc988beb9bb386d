package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// orderRepositoryInMemory — in-memory коллекция заказов в порядке вставки.
//
// Поиск линейный: для объёмов учебного примера индекс не нужен.
// Мьютекс защищает только членство в коллекции, поля заказов меняются
// вызывающей стороной через общий указатель.
type orderRepositoryInMemory struct {
	mu     sync.RWMutex
	orders []*domain.Order
}

// NewOrderRepository возвращает пустой in-memory репозиторий заказов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{}
}

// Persist добавляет заказ в конец коллекции. Дубликаты id и номера не проверяются.
func (r *orderRepositoryInMemory) Persist(order *domain.Order) {
	if order == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.orders = append(r.orders, order)
}

// FindByID возвращает первый заказ с указанным id или nil.
func (r *orderRepositoryInMemory) FindByID(id int64) *domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.ID == id {
			return order
		}
	}
	return nil
}

// FindByOrderNo возвращает первый заказ с указанным номером или nil.
func (r *orderRepositoryInMemory) FindByOrderNo(orderNo string) *domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNo == orderNo {
			return order
		}
	}
	return nil
}

// RemoveByOrderNo удаляет все совпадения, сохраняя порядок оставшихся заказов.
func (r *orderRepositoryInMemory) RemoveByOrderNo(orderNo string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.orders[:0]
	for _, order := range r.orders {
		if order.OrderNo != orderNo {
			kept = append(kept, order)
		}
	}
	if len(kept) == len(r.orders) {
		return false
	}
	// Обнуляем хвост, чтобы удалённые заказы не удерживались массивом.
	for i := len(kept); i < len(r.orders); i++ {
		r.orders[i] = nil
	}
	r.orders = kept
	return true
}

// FindAll возвращает новый срез с теми же указателями.
func (r *orderRepositoryInMemory) FindAll() []*domain.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Order, len(r.orders))
	copy(result, r.orders)
	return result
}

// Len возвращает количество заказов в коллекции.
func (r *orderRepositoryInMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.orders)
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
