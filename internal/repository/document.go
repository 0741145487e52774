package repository

import (
	"context"
	"time"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
)

// DocumentQuery describes a document listing request. The Actor drives the
// accessibility scope; everything else is an optional filter AND'ed with it.
type DocumentQuery struct {
	Actor model.Actor

	// Search is a case-insensitive substring matched against title OR description.
	Search string
	// CategoryID and DepartmentID are exact-match filters when non-empty.
	CategoryID   string
	DepartmentID string
	// CreatedFrom and CreatedTo bound created_at inclusively when set.
	CreatedFrom *time.Time
	CreatedTo   *time.Time

	// SortBy outside {title, created_at, download_count, file_size} falls back
	// to created_at; SortDir outside {asc, desc} falls back to desc.
	SortBy  string
	SortDir string

	Page PageQuery
}

// DocumentUpdate carries the mutable metadata fields of a document.
// File contents and uploader are immutable after creation.
type DocumentUpdate struct {
	Title       string
	Description string
	CategoryID  string
	AccessLevel model.AccessLevel
}

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here, strictly persistence operations. The accessibility
// scope in List is the one exception: it must be evaluated by the
// database so pagination cannot leak rows.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by its ID, or errs.ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// List returns one page of documents the query's actor may view, after
	// applying the query's filters and sort, plus the total row count for
	// the same predicate.
	List(ctx context.Context, q DocumentQuery) (*PageResult[model.Document], error)

	// Update persists the mutable metadata fields and returns the stored row.
	Update(ctx context.Context, id string, upd DocumentUpdate) (*model.Document, error)

	// IncrementDownloadCount atomically adds 1 to the counter and returns the
	// new value, or errs.ErrNotFound.
	IncrementDownloadCount(ctx context.Context, id string) (int64, error)

	// Delete removes a document record by ID.
	Delete(ctx context.Context, id string) error

	// CountByUploader returns how many documents a user has uploaded.
	CountByUploader(ctx context.Context, userID string) (int, error)

	// CountByDepartment returns how many documents belong to a department.
	CountByDepartment(ctx context.Context, departmentID string) (int, error)
}
