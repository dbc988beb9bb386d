package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
	"github.com/vladislavdragonenkov/ordermvc/internal/storage/memory"
)

type failingJournal struct{}

func (failingJournal) Append(domain.JournalEntry) error { return errors.New("disk full") }
func (failingJournal) List(string) ([]domain.JournalEntry, error) {
	return nil, nil
}

type countingFailures struct{ n int }

func (c *countingFailures) RecordJournalFailure() { c.n++ }

func TestRecorder_AppendsEntries(t *testing.T) {
	repo := memory.NewJournalRepository()
	logger, _ := test.NewNullLogger()
	recorder := NewRecorder(repo, logger.WithField("test", "journal"), nil)
	now := time.Now().UTC()

	recorder.OnOrderEvent(domain.OrderEvent{
		Type:     domain.OrderEventCreated,
		Order:    domain.OrderSnapshot{ID: 1001, OrderNo: "ORD-001", Customer: "Customer101", Amount: 2500},
		Occurred: now,
	})
	recorder.OnOrderEvent(domain.OrderEvent{
		Type:     domain.OrderEventAmountUpdated,
		Order:    domain.OrderSnapshot{ID: 1001, OrderNo: "ORD-001", Customer: "Customer101", Amount: 3000},
		Occurred: now.Add(time.Millisecond),
	})

	entries, err := repo.List("ORD-001")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
	assert.Equal(t, int64(1001), entries[0].OrderID)
	assert.Equal(t, "created for Customer101 with amount 2500", entries[0].Detail)
	assert.Equal(t, "amount set to 3000", entries[1].Detail)
}

func TestRecorder_LogsFailures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	failures := &countingFailures{}
	recorder := NewRecorder(failingJournal{}, logger.WithField("test", "journal"), failures)

	recorder.OnOrderEvent(domain.OrderEvent{Type: domain.OrderEventDeleted, Order: domain.OrderSnapshot{OrderNo: "ORD-1"}})

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "failed to append journal entry", hook.LastEntry().Message)
	assert.Equal(t, 1, failures.n)
}

func TestDescribe(t *testing.T) {
	order := domain.OrderSnapshot{OrderNo: "ORD-1", Customer: "bob", Amount: 12.5}

	assert.Equal(t, "customer set to bob", Describe(domain.OrderEvent{Type: domain.OrderEventCustomerUpdated, Order: order}))
	assert.Equal(t, "deleted", Describe(domain.OrderEvent{Type: domain.OrderEventDeleted, Order: order}))
	assert.Equal(t, "order.unknown", Describe(domain.OrderEvent{Type: "order.unknown", Order: order}))
}
