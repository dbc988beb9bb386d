package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/ordermvc/internal/domain"
)

type journalRepository struct {
	db *sql.DB
}

// NewJournalRepository создаёт PostgreSQL-реализацию JournalRepository.
func NewJournalRepository(store *Store) domain.JournalRepository {
	return &journalRepository{db: store.DB()}
}

func (r *journalRepository) Append(entry domain.JournalEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Occurred.IsZero() {
		entry.Occurred = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO order_journal (id, order_id, order_no, type, detail, occurred)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, entry.ID, entry.OrderID, entry.OrderNo, string(entry.Type), entry.Detail, entry.Occurred); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}

	return nil
}

func (r *journalRepository) List(orderNo string) ([]domain.JournalEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, order_no, type, detail, occurred
		FROM order_journal
		WHERE order_no = $1
		ORDER BY occurred ASC, seq ASC
	`, orderNo)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0)
	for rows.Next() {
		var (
			entry     domain.JournalEntry
			eventType string
		)
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.OrderNo, &eventType, &entry.Detail, &entry.Occurred); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Type = domain.OrderEventType(eventType)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal entries: %w", err)
	}

	return entries, nil
}

var _ domain.JournalRepository = (*journalRepository)(nil)
