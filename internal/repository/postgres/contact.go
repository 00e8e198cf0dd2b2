package postgres

import (
	"context"
	"fmt"

	"github.com/AayushAcharya189/SportGear/internal/domain"
	"github.com/AayushAcharya189/SportGear/pkg/database"
)

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	pool database.DBTX
}

// NewContactRepository creates a PostgreSQL-backed contact repository.
func NewContactRepository(pool database.DBTX) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create stores a submitted contact message.
func (r *ContactRepository) Create(ctx context.Context, m *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, m.ID, m.Name, m.Email, m.Message, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

// List returns stored messages, newest first, with the total count.
func (r *ContactRepository) List(ctx context.Context, page, perPage int) ([]domain.ContactMessage, int, error) {
	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	query := `
		SELECT id, name, email, message, created_at, count(*) OVER() AS total_count
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var totalCount int
	messages := make([]domain.ContactMessage, 0)

	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("scan contact message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate contact message rows: %w", err)
	}

	return messages, totalCount, nil
}
