package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

func TestJournalRepository_AppendAndList(t *testing.T) {
	repo := NewJournalRepository(openJournalStore(t))

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []domain.JournalEntry{
		{OrderID: 1001, OrderNo: "ORD-001", Type: domain.OrderEventAmountUpdated, Detail: "amount set to 3000", Occurred: base.Add(time.Minute)},
		{OrderID: 1001, OrderNo: "ORD-001", Type: domain.OrderEventCreated, Detail: "created for Customer101 with amount 2500", Occurred: base},
		{OrderID: 1002, OrderNo: "ORD-002", Type: domain.OrderEventCreated, Detail: "created for Customer102 with amount 3500", Occurred: base},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Append(entry))
	}

	got, err := repo.List("ORD-001")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.OrderEventCreated, got[0].Type)
	assert.Equal(t, domain.OrderEventAmountUpdated, got[1].Type)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, int64(1001), got[0].OrderID)
	assert.True(t, got[0].Occurred.Equal(base))
}

func TestJournalRepository_SameTimestampKeepsInsertOrder(t *testing.T) {
	repo := NewJournalRepository(openJournalStore(t))

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for _, detail := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Append(domain.JournalEntry{
			OrderID: 7, OrderNo: "ORD-007", Type: domain.OrderEventCustomerUpdated, Detail: detail, Occurred: at,
		}))
	}

	got, err := repo.List("ORD-007")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "first", got[0].Detail)
	assert.Equal(t, "third", got[2].Detail)
}

func TestJournalRepository_EmptyAndDefaults(t *testing.T) {
	repo := NewJournalRepository(openJournalStore(t))

	got, err := repo.List("ORD-404")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, repo.Append(domain.JournalEntry{OrderID: 1, OrderNo: "ORD-100", Type: domain.OrderEventDeleted}))
	got, err = repo.List("ORD-100")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Occurred.IsZero())
}
