package postgres

import (
	"context"
	"database/sql"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// ActivityLogPostgres is a PostgreSQL implementation of repository.ActivityLogRepository.
// The table is append-only; the repository exposes no update or delete.
type ActivityLogPostgres struct {
	db *sql.DB
}

func NewActivityLogPostgres(db *sql.DB) *ActivityLogPostgres {
	return &ActivityLogPostgres{db: db}
}

var _ repository.ActivityLogRepository = (*ActivityLogPostgres)(nil)

// Create appends one audit entry.
func (r *ActivityLogPostgres) Create(ctx context.Context, e *model.ActivityLogEntry) error {
	const q = `
		INSERT INTO activity_logs (id, user_id, document_id, action, details, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.UserID, e.DocumentID, e.Action, e.Details, e.IPAddress, e.UserAgent, e.CreatedAt,
	)
	return err
}

// List returns entries newest-first with a total count.
func (r *ActivityLogPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.ActivityLogEntry], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity_logs`).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT id, user_id, document_id, action, details, ip_address, user_agent, created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.ActivityLogEntry, 0)
	for rows.Next() {
		var e model.ActivityLogEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.DocumentID, &e.Action, &e.Details, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.ActivityLogEntry]{Items: items, Total: total}, nil
}
