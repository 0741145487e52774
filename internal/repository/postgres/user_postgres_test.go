package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

var userCols = []string{"id", "name", "email", "password_hash", "role", "department_id", "created_at"}

func userRow(id, email string, dept any) *sqlmock.Rows {
	return sqlmock.NewRows(userCols).
		AddRow(id, "Jo Staff", email, "$2a$10$hash", "employee", dept, time.Now().UTC())
}

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	u := &model.User{
		ID: "user-1", Name: "Jo Staff", Email: "jo@example.com",
		PasswordHash: "$2a$10$hash", Role: model.RoleEmployee, CreatedAt: time.Now().UTC(),
	}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.DepartmentID, u.CreatedAt).
			WillReturnRows(userRow("user-1", "jo@example.com", nil))

		out, err := repo.Create(context.Background(), u)
		assert.NoError(t, err)
		assert.Equal(t, "jo@example.com", out.Email)
		assert.Nil(t, out.DepartmentID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

		_, err := repo.Create(context.Background(), u)
		assert.ErrorIs(t, err, errs.ErrAlreadyExists)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)

	t.Run("found with department", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
			WithArgs("jo@example.com").
			WillReturnRows(userRow("user-1", "jo@example.com", "dept-1"))

		u, err := repo.FindByEmail(context.Background(), "jo@example.com")
		assert.NoError(t, err)
		require.NotNil(t, u.DepartmentID)
		assert.Equal(t, "dept-1", *u.DepartmentID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email =").
			WithArgs("ghost@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestUserPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)

	t.Run("deleted", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users WHERE id =").
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "user-1"))
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users WHERE id =").
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), errs.ErrNotFound)
	})
}

func TestCategoryPostgres_UniqueTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCategoryPostgres(db)
	c := &model.DocumentCategory{ID: "cat-1", Title: "Policy", CreatedAt: time.Now().UTC()}

	mock.ExpectQuery("INSERT INTO document_categories").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation})

	_, err = repo.Create(context.Background(), c)
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestActivityLogPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewActivityLogPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM activity_logs").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("FROM activity_logs ORDER BY created_at DESC").
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "document_id", "action", "details", "ip_address", "user_agent", "created_at"}).
			AddRow("log-1", "user-1", "doc-1", "download", "Downloaded file: report.pdf", "10.0.0.1", "curl/8.0", time.Now().UTC()))

	res, err := repo.List(context.Background(), repository.PageQuery{Limit: 50, Offset: 0})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, model.ActionDownload, res.Items[0].Action)
}
