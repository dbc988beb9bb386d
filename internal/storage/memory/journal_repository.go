package memory

import (
	"sort"
	"sync"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

// journalRepositoryInMemory хранит журнал изменений в памяти (для разработки/тестов).
type journalRepositoryInMemory struct {
	mu      sync.RWMutex
	entries map[string][]domain.JournalEntry
}

// NewJournalRepository создаёт in-memory реализацию JournalRepository.
func NewJournalRepository() domain.JournalRepository {
	return &journalRepositoryInMemory{entries: make(map[string][]domain.JournalEntry)}
}

// Append добавляет запись в журнал заказа.
func (r *journalRepositoryInMemory) Append(entry domain.JournalEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := append(r.entries[entry.OrderNo], entry)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Occurred.Before(entries[j].Occurred)
	})
	r.entries[entry.OrderNo] = entries

	return nil
}

// List возвращает записи журнала заказа в хронологическом порядке.
func (r *journalRepositoryInMemory) List(orderNo string) ([]domain.JournalEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[orderNo]
	result := make([]domain.JournalEntry, len(entries))
	copy(result, entries)
	return result, nil
}

var _ domain.JournalRepository = (*journalRepositoryInMemory)(nil)
