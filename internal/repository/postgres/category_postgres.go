package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// CategoryPostgres is a PostgreSQL implementation of repository.CategoryRepository.
// Title uniqueness is enforced by the database constraint.
type CategoryPostgres struct {
	db *sql.DB
}

func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

func scanCategory(row rowScanner) (*model.DocumentCategory, error) {
	var c model.DocumentCategory
	if err := row.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryPostgres) Create(ctx context.Context, c *model.DocumentCategory) (*model.DocumentCategory, error) {
	const q = `
		INSERT INTO document_categories (id, title, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, description, created_at`
	out, err := scanCategory(r.db.QueryRowContext(ctx, q, c.ID, c.Title, c.Description, c.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errs.ErrAlreadyExists
		}
		return nil, err
	}
	return out, nil
}

func (r *CategoryPostgres) FindByID(ctx context.Context, id string) (*model.DocumentCategory, error) {
	const q = `SELECT id, title, description, created_at FROM document_categories WHERE id = $1`
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryPostgres) List(ctx context.Context) ([]model.DocumentCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title, description, created_at FROM document_categories ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentCategory, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *CategoryPostgres) Update(ctx context.Context, id, title, description string) (*model.DocumentCategory, error) {
	const q = `
		UPDATE document_categories SET title = $2, description = $3
		WHERE id = $1
		RETURNING id, title, description, created_at`
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, id, title, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, errs.ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM document_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: category still has documents", errs.ErrInUse)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
