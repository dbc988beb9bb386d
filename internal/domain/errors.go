package domain

import "errors"

var (
	// ErrInvalidID возвращается, если заказ с таким идентификатором не найден.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidOrderNo возвращается, если заказ с таким номером не найден при чтении.
	ErrInvalidOrderNo = errors.New("invalid order number")
	// ErrOrderNotFound возвращается, если заказ для изменения или удаления отсутствует.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAmountNotPositive — новая сумма заказа должна быть больше нуля.
	ErrAmountNotPositive = errors.New("amount must be positive")
	// ErrCustomerRequired — имя клиента не может быть пустым.
	ErrCustomerRequired = errors.New("customer name cannot be empty")
	// ErrNoOrders — в репозитории нет ни одного заказа.
	ErrNoOrders = errors.New("no orders available")
)

// IsNotFound сообщает, относится ли ошибка к отсутствию заказа
// (поиск по id, по номеру или промах при удалении).
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidOrderNo)
}

// IsInvalidInput сообщает, была ли ошибка вызвана некорректными входными данными.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrAmountNotPositive) || errors.Is(err, ErrCustomerRequired)
}
