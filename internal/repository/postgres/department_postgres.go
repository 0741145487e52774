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

// DepartmentPostgres is a PostgreSQL implementation of repository.DepartmentRepository.
type DepartmentPostgres struct {
	db *sql.DB
}

func NewDepartmentPostgres(db *sql.DB) *DepartmentPostgres {
	return &DepartmentPostgres{db: db}
}

var _ repository.DepartmentRepository = (*DepartmentPostgres)(nil)

func scanDepartment(row rowScanner) (*model.Department, error) {
	var d model.Department
	if err := row.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DepartmentPostgres) Create(ctx context.Context, d *model.Department) (*model.Department, error) {
	const q = `
		INSERT INTO departments (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, description, created_at`
	return scanDepartment(r.db.QueryRowContext(ctx, q, d.ID, d.Name, d.Description, d.CreatedAt))
}

func (r *DepartmentPostgres) FindByID(ctx context.Context, id string) (*model.Department, error) {
	const q = `SELECT id, name, description, created_at FROM departments WHERE id = $1`
	d, err := scanDepartment(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DepartmentPostgres) List(ctx context.Context) ([]model.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Department, 0)
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *DepartmentPostgres) Update(ctx context.Context, id, name, description string) (*model.Department, error) {
	const q = `
		UPDATE departments SET name = $2, description = $3
		WHERE id = $1
		RETURNING id, name, description, created_at`
	d, err := scanDepartment(r.db.QueryRowContext(ctx, q, id, name, description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *DepartmentPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: department still has users or documents", errs.ErrInUse)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
