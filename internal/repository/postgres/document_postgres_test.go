package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

var docCols = []string{
	"id", "title", "description", "file_name", "file_path", "file_type", "file_size",
	"category_id", "department_id", "uploaded_by", "access_level", "download_count",
	"created_at", "updated_at",
}

func docRow(id string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(docCols).
		AddRow(id, "Q3 Report", "quarterly numbers", "report.pdf", "documents/abc.pdf", "pdf", int64(1024),
			"cat-1", "dept-1", "user-1", "department", int64(3), now, now)
}

func strPtr(s string) *string { return &s }

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	now := time.Now().UTC()
	doc := &model.Document{
		ID: "doc-1", Title: "Q3 Report", Description: "quarterly numbers",
		FileName: "report.pdf", FilePath: "documents/abc.pdf", FileType: "pdf", FileSize: 1024,
		CategoryID: "cat-1", DepartmentID: "dept-1", UploadedBy: "user-1",
		AccessLevel: model.AccessDepartment, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Title, doc.Description, doc.FileName, doc.FilePath, doc.FileType,
			doc.FileSize, doc.CategoryID, doc.DepartmentID, doc.UploadedBy, doc.AccessLevel,
			doc.DownloadCount, doc.CreatedAt, doc.UpdatedAt).
		WillReturnRows(docRow("doc-1"))

	out, err := repo.Create(context.Background(), doc)

	assert.NoError(t, err)
	assert.Equal(t, "doc-1", out.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id =").
			WithArgs("doc-1").
			WillReturnRows(docRow("doc-1"))

		doc, err := repo.FindByID(context.Background(), "doc-1")
		assert.NoError(t, err)
		assert.Equal(t, model.AccessDepartment, doc.AccessLevel)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id =").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(context.Background(), "missing")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestDocumentPostgres_List_EmployeeScope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	actor := model.Actor{ID: "user-1", Role: model.RoleEmployee, DepartmentID: strPtr("dept-1")}

	scope := regexp.QuoteMeta(
		"(access_level = 'public' OR (access_level = 'department' AND department_id = $1) OR (access_level = 'private' AND uploaded_by = $2))",
	)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE " + scope).
		WithArgs("dept-1", "user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(scope + " ORDER BY created_at DESC, id DESC").
		WithArgs("dept-1", "user-1", 20, 0).
		WillReturnRows(docRow("doc-1"))

	res, err := repo.List(context.Background(), repository.DocumentQuery{
		Actor: actor,
		Page:  repository.PageQuery{Limit: 20, Offset: 0},
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List_NoDepartmentActor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	actor := model.Actor{ID: "user-1", Role: model.RoleEmployee}

	// No department arm at all: department-scoped rows fail closed.
	scope := regexp.QuoteMeta(
		"(access_level = 'public' OR (access_level = 'private' AND uploaded_by = $1))",
	)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE " + scope).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(scope).
		WithArgs("user-1", 20, 0).
		WillReturnRows(sqlmock.NewRows(docCols))

	res, err := repo.List(context.Background(), repository.DocumentQuery{
		Actor: actor,
		Page:  repository.PageQuery{Limit: 20, Offset: 0},
	})

	assert.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List_AdminUnscoped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	actor := model.Actor{ID: "admin-1", Role: model.RoleAdmin}

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents$").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("FROM documents ORDER BY file_size ASC, id DESC").
		WithArgs(20, 0).
		WillReturnRows(docRow("doc-1"))

	res, err := repo.List(context.Background(), repository.DocumentQuery{
		Actor:   actor,
		SortBy:  "file_size",
		SortDir: "asc",
		Page:    repository.PageQuery{Limit: 20, Offset: 0},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List_FiltersAndSortFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	actor := model.Actor{ID: "admin-1", Role: model.RoleAdmin}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)

	filter := regexp.QuoteMeta(
		"(title ILIKE $1 OR description ILIKE $1) AND category_id = $2 AND department_id = $3 AND created_at >= $4 AND created_at <= $5",
	)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE " + filter).
		WithArgs("%report%", "cat-1", "dept-1", from, to).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	// Unknown sort field and direction fall back to created_at DESC.
	mock.ExpectQuery(filter + " ORDER BY created_at DESC, id DESC").
		WithArgs("%report%", "cat-1", "dept-1", from, to, 20, 0).
		WillReturnRows(docRow("doc-1"))

	_, err = repo.List(context.Background(), repository.DocumentQuery{
		Actor:        actor,
		Search:       "report",
		CategoryID:   "cat-1",
		DepartmentID: "dept-1",
		CreatedFrom:  &from,
		CreatedTo:    &to,
		SortBy:       "uploaded_by",
		SortDir:      "sideways",
		Page:         repository.PageQuery{Limit: 20, Offset: 0},
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_IncrementDownloadCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)

	t.Run("increments atomically", func(t *testing.T) {
		mock.ExpectQuery("UPDATE documents").
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows([]string{"download_count"}).AddRow(6))

		count, err := repo.IncrementDownloadCount(context.Background(), "doc-1")
		assert.NoError(t, err)
		assert.Equal(t, int64(6), count)
	})

	t.Run("missing row", func(t *testing.T) {
		mock.ExpectQuery("UPDATE documents").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.IncrementDownloadCount(context.Background(), "missing")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestDocumentPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectQuery("UPDATE documents").
		WithArgs("doc-1", "Renamed", "new desc", "cat-2", model.AccessPrivate).
		WillReturnRows(docRow("doc-1"))

	_, err = repo.Update(context.Background(), "doc-1", repository.DocumentUpdate{
		Title: "Renamed", Description: "new desc", CategoryID: "cat-2", AccessLevel: model.AccessPrivate,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)

	mock.ExpectExec("DELETE FROM documents WHERE id =").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "doc-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
