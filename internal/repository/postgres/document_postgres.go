package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic
// beyond the accessibility predicate, which must run inside the database so that
// LIMIT/OFFSET pagination never skips or leaks rows.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const docColumns = `id, title, description, file_name, file_path, file_type, file_size,
		category_id, department_id, uploaded_by, access_level, download_count, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&d.FileName,
		&d.FilePath,
		&d.FileType,
		&d.FileSize,
		&d.CategoryID,
		&d.DepartmentID,
		&d.UploadedBy,
		&d.AccessLevel,
		&d.DownloadCount,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, title, description, file_name, file_path, file_type, file_size,
			category_id, department_id, uploaded_by, access_level, download_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + docColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.FileName,
		doc.FilePath,
		doc.FileType,
		doc.FileSize,
		doc.CategoryID,
		doc.DepartmentID,
		doc.UploadedBy,
		doc.AccessLevel,
		doc.DownloadCount,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `SELECT ` + docColumns + ` FROM documents WHERE id = $1`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// sortColumns is the allow-list of sortable fields. Anything else falls back
// to created_at so raw request input can never reach the ORDER BY clause.
var sortColumns = map[string]string{
	"title":          "title",
	"created_at":     "created_at",
	"download_count": "download_count",
	"file_size":      "file_size",
}

// accessibilityPredicate appends the scope condition for a non-admin actor to
// args and returns its SQL fragment. Admins get no predicate. An actor without
// a department gets no department arm, so department-scoped rows fail closed.
func accessibilityPredicate(actor model.Actor, args *[]any) string {
	if actor.Role == model.RoleAdmin {
		return ""
	}
	arms := []string{fmt.Sprintf("access_level = '%s'", model.AccessPublic)}
	if actor.DepartmentID != nil {
		*args = append(*args, *actor.DepartmentID)
		arms = append(arms, fmt.Sprintf("(access_level = '%s' AND department_id = $%d)", model.AccessDepartment, len(*args)))
	}
	*args = append(*args, actor.ID)
	arms = append(arms, fmt.Sprintf("(access_level = '%s' AND uploaded_by = $%d)", model.AccessPrivate, len(*args)))
	return "(" + strings.Join(arms, " OR ") + ")"
}

// buildFilter composes the WHERE clause for a listing: the accessibility
// scope AND'ed with the optional search/category/department/date filters.
func buildFilter(q repository.DocumentQuery) (string, []any) {
	var conds []string
	var args []any

	if scope := accessibilityPredicate(q.Actor, &args); scope != "" {
		conds = append(conds, scope)
	}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
	}
	if q.CategoryID != "" {
		args = append(args, q.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if q.DepartmentID != "" {
		args = append(args, q.DepartmentID)
		conds = append(conds, fmt.Sprintf("department_id = $%d", len(args)))
	}
	if q.CreatedFrom != nil {
		args = append(args, *q.CreatedFrom)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.CreatedTo != nil {
		args = append(args, *q.CreatedTo)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of accessible documents and the total count for the
// same predicate. Scope, filters, sort and pagination all run in the database.
func (r *DocumentPostgres) List(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	where, args := buildFilter(q)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	sortCol, ok := sortColumns[q.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortDir, "asc") {
		dir = "ASC"
	}

	args = append(args, q.Page.Limit)
	limitPos := len(args)
	args = append(args, q.Page.Offset)

	qList := fmt.Sprintf(
		"SELECT "+docColumns+" FROM documents%s ORDER BY %s %s, id DESC LIMIT $%d OFFSET $%d",
		where, sortCol, dir, limitPos, limitPos+1,
	)
	rows, err := r.db.QueryContext(ctx, qList, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Update persists the mutable metadata fields and returns the stored row.
func (r *DocumentPostgres) Update(ctx context.Context, id string, upd repository.DocumentUpdate) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET title = $2, description = $3, category_id = $4, access_level = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + docColumns
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id, upd.Title, upd.Description, upd.CategoryID, upd.AccessLevel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// IncrementDownloadCount adds 1 to the counter in a single UPDATE so
// concurrent downloads never lose an increment.
func (r *DocumentPostgres) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	const q = `
		UPDATE documents
		SET download_count = download_count + 1
		WHERE id = $1
		RETURNING download_count`
	var count int64
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, errs.ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

// Delete removes a document row by ID. Missing rows are not an error; the
// service resolves existence before deleting.
func (r *DocumentPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM documents WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// CountByUploader returns how many documents a user has uploaded.
func (r *DocumentPostgres) CountByUploader(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE uploaded_by = $1`, userID).Scan(&n)
	return n, err
}

// CountByDepartment returns how many documents belong to a department.
func (r *DocumentPostgres) CountByDepartment(ctx context.Context, departmentID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE department_id = $1`, departmentID).Scan(&n)
	return n, err
}
