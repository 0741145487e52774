package repository

import (
	"context"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
)

// ActivityLogRepository appends to and reads the audit trail.
// Entries are append-only; there is no update or delete.
type ActivityLogRepository interface {
	Create(ctx context.Context, e *model.ActivityLogEntry) error

	// List returns entries newest-first with a total count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.ActivityLogEntry], error)
}
