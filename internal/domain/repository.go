package domain

// OrderRepository описывает коллекцию заказов в порядке вставки.
type OrderRepository interface {
	// Persist добавляет заказ в конец коллекции без проверки уникальности.
	Persist(order *Order)
	// FindByID возвращает первый заказ с указанным id или nil.
	FindByID(id int64) *Order
	// FindByOrderNo возвращает первый заказ с указанным номером или nil.
	FindByOrderNo(orderNo string) *Order
	// RemoveByOrderNo удаляет все заказы с указанным номером и сообщает, было ли что-то удалено.
	RemoveByOrderNo(orderNo string) bool
	// FindAll возвращает копию списка указателей: членство не меняется, сами заказы — общие.
	FindAll() []*Order
	// Len возвращает текущий размер коллекции.
	Len() int
}
