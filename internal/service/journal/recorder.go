// Package journal записывает изменения заказов в журнал.
package journal

import (
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
	"github.com/vladislavdragonenkov/ordermvc/internal/view"
)

// FailureRecorder учитывает записи, которые не удалось сохранить.
type FailureRecorder interface {
	RecordJournalFailure()
}

// Recorder — слушатель контроллера, превращающий события в записи журнала.
// Ошибки хранилища логируются и не возвращаются контроллеру.
type Recorder struct {
	repo     domain.JournalRepository
	logger   *log.Entry
	failures FailureRecorder
}

// NewRecorder создаёт слушателя поверх репозитория журнала.
// failures может быть nil.
func NewRecorder(repo domain.JournalRepository, logger *log.Entry, failures FailureRecorder) *Recorder {
	if logger == nil {
		logger = log.WithField("component", "order-journal")
	}
	return &Recorder{repo: repo, logger: logger, failures: failures}
}

// OnOrderEvent сохраняет событие в журнал.
func (r *Recorder) OnOrderEvent(event domain.OrderEvent) {
	entry := domain.JournalEntry{
		ID:       uuid.NewString(),
		OrderID:  event.Order.ID,
		OrderNo:  event.Order.OrderNo,
		Type:     event.Type,
		Detail:   Describe(event),
		Occurred: event.Occurred,
	}
	if err := r.repo.Append(entry); err != nil {
		r.logger.WithError(err).WithFields(log.Fields{
			"order_no": entry.OrderNo,
			"type":     entry.Type,
		}).Error("failed to append journal entry")
		if r.failures != nil {
			r.failures.RecordJournalFailure()
		}
	}
}

// Describe формирует человекочитаемое описание события.
func Describe(event domain.OrderEvent) string {
	o := event.Order
	switch event.Type {
	case domain.OrderEventCreated:
		return fmt.Sprintf("created for %s with amount %s", o.Customer, view.FormatAmount(o.Amount))
	case domain.OrderEventAmountUpdated:
		return fmt.Sprintf("amount set to %s", view.FormatAmount(o.Amount))
	case domain.OrderEventCustomerUpdated:
		return fmt.Sprintf("customer set to %s", o.Customer)
	case domain.OrderEventDeleted:
		return "deleted"
	default:
		return string(event.Type)
	}
}

var _ domain.OrderListener = (*Recorder)(nil)
