package controller_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/ordermvc/internal/controller"
	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

func TestSynchronized_Operations(t *testing.T) {
	ctrl, _, _ := setup(t)
	s := controller.NewSynchronized(ctrl)

	created := s.CreateOrder(1, "ORD-1", "alice", 10)
	assert.Equal(t, domain.OrderSnapshot{ID: 1, OrderNo: "ORD-1", Customer: "alice", Amount: 10}, created)

	updated, err := s.UpdateAmount("ORD-1", 25)
	require.NoError(t, err)
	assert.Equal(t, 25.0, updated.Amount)

	updated, err = s.UpdateCustomer("ORD-1", "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", updated.Customer)
	assert.Equal(t, 25.0, updated.Amount)

	byID, err := s.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, updated, byID)

	_, err = s.UpdateAmount("ORD-1", 0)
	assert.ErrorIs(t, err, domain.ErrAmountNotPositive)
	_, err = s.UpdateCustomer("ORD-404", "x")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	_, err = s.GetByOrderNo("ORD-404")
	assert.ErrorIs(t, err, domain.ErrInvalidOrderNo)
	_, err = s.GetByID(404)
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	require.NoError(t, s.RefreshView("ORD-1"))

	list, err := s.ListAllOrders()
	require.NoError(t, err)
	assert.Equal(t, []domain.OrderSnapshot{updated}, list)

	require.NoError(t, s.DeleteOrder("ORD-1"))
	_, err = s.ListAllOrders()
	assert.ErrorIs(t, err, domain.ErrNoOrders)
}

func TestSynchronized_ConcurrentCallers(t *testing.T) {
	ctrl, repo, _ := setup(t)
	s := controller.NewSynchronized(ctrl)
	s.CreateOrder(0, "shared", "nobody", 1)

	const workers = 16
	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.CreateOrder(int64(i), fmt.Sprintf("ORD-%d", i), "customer", float64(i))
			_, _ = s.UpdateAmount("shared", float64(i))
			_, _ = s.UpdateCustomer("shared", fmt.Sprintf("customer-%d", i))
			_, _ = s.ListAllOrders()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, workers+1, repo.Len())
}
