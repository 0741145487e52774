package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
	repoMocks "github.com/matkmin/Document-Management-System-Backend/internal/repository/mocks"
	"github.com/matkmin/Document-Management-System-Backend/internal/storage"
	storeMocks "github.com/matkmin/Document-Management-System-Backend/internal/storage/mocks"
)

func strPtr(s string) *string { return &s }

type docServiceMocks struct {
	store *storeMocks.MockStorage
	docs  *repoMocks.MockDocumentRepository
	cats  *repoMocks.MockCategoryRepository
	depts *repoMocks.MockDepartmentRepository
	audit *repoMocks.MockActivityLogRepository
}

func newDocService() (DocumentService, *docServiceMocks) {
	m := &docServiceMocks{
		store: new(storeMocks.MockStorage),
		docs:  new(repoMocks.MockDocumentRepository),
		cats:  new(repoMocks.MockCategoryRepository),
		depts: new(repoMocks.MockDepartmentRepository),
		audit: new(repoMocks.MockActivityLogRepository),
	}
	svc := NewDocumentService(m.store, m.docs, m.cats, m.depts, m.audit)
	return svc, m
}

var (
	adminActor    = model.Actor{ID: "u-admin", Role: model.RoleAdmin}
	managerActor  = model.Actor{ID: "u-mgr", Role: model.RoleManager, DepartmentID: strPtr("dept-1")}
	employeeActor = model.Actor{ID: "u-emp", Role: model.RoleEmployee, DepartmentID: strPtr("dept-1")}
)

func validUpload(r io.Reader) UploadInput {
	return UploadInput{
		Title:        "Handbook",
		Description:  "employee handbook",
		CategoryID:   "cat-1",
		DepartmentID: "dept-1",
		AccessLevel:  model.AccessDepartment,
		FileName:     "handbook.pdf",
		ContentType:  "application/pdf",
		Size:         11,
		Reader:       r,
	}
}

func TestDocumentService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, m := newDocService()
		r := strings.NewReader("hello world")

		m.cats.On("FindByID", ctx, "cat-1").Return(&model.DocumentCategory{ID: "cat-1"}, nil)
		m.depts.On("FindByID", ctx, "dept-1").Return(&model.Department{ID: "dept-1"}, nil)
		m.store.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "documents/") && strings.HasSuffix(key, ".pdf")
		}), r, mock.Anything).Return(storage.ObjectInfo{Key: "documents/gen.pdf", Size: 11}, nil)
		m.docs.On("Create", ctx, mock.MatchedBy(func(doc *model.Document) bool {
			return doc.FilePath == "documents/gen.pdf" &&
				doc.FileName == "handbook.pdf" &&
				doc.FileType == "pdf" &&
				doc.UploadedBy == "u-mgr" &&
				doc.DownloadCount == 0
		})).Return(&model.Document{ID: "doc-1"}, nil)

		doc, err := svc.Upload(ctx, managerActor, validUpload(r))
		require.NoError(t, err)
		assert.Equal(t, "doc-1", doc.ID)
		m.docs.AssertExpectations(t)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		svc, _ := newDocService()
		_, err := svc.Upload(ctx, employeeActor, validUpload(strings.NewReader("x")))
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("manager outside own department is a permission error", func(t *testing.T) {
		svc, m := newDocService()
		m.cats.On("FindByID", ctx, "cat-1").Return(&model.DocumentCategory{ID: "cat-1"}, nil)
		m.depts.On("FindByID", ctx, "dept-2").Return(&model.Department{ID: "dept-2"}, nil)

		in := validUpload(strings.NewReader("x"))
		in.DepartmentID = "dept-2"

		_, err := svc.Upload(ctx, managerActor, in)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		assert.NotErrorIs(t, err, errs.ErrValidation)
		m.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin may upload into any department", func(t *testing.T) {
		svc, m := newDocService()
		r := strings.NewReader("x")
		m.cats.On("FindByID", ctx, "cat-1").Return(&model.DocumentCategory{ID: "cat-1"}, nil)
		m.depts.On("FindByID", ctx, "dept-9").Return(&model.Department{ID: "dept-9"}, nil)
		m.store.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{Key: "documents/gen.pdf", Size: 1}, nil)
		m.docs.On("Create", ctx, mock.Anything).Return(&model.Document{ID: "doc-2"}, nil)

		in := validUpload(r)
		in.DepartmentID = "dept-9"

		_, err := svc.Upload(ctx, adminActor, in)
		assert.NoError(t, err)
	})

	t.Run("file over the size limit", func(t *testing.T) {
		svc, m := newDocService()
		in := validUpload(strings.NewReader("x"))
		in.Size = maxUploadSize + 1

		_, err := svc.Upload(ctx, adminActor, in)
		assert.ErrorIs(t, err, errs.ErrValidation)
		m.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("disallowed file extension", func(t *testing.T) {
		svc, m := newDocService()
		in := validUpload(strings.NewReader("x"))
		in.FileName = "payload.exe"

		_, err := svc.Upload(ctx, adminActor, in)
		assert.ErrorIs(t, err, errs.ErrValidation)
		m.store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("extension check ignores case", func(t *testing.T) {
		svc, m := newDocService()
		r := strings.NewReader("x")
		m.cats.On("FindByID", ctx, "cat-1").Return(&model.DocumentCategory{ID: "cat-1"}, nil)
		m.depts.On("FindByID", ctx, "dept-1").Return(&model.Department{ID: "dept-1"}, nil)
		m.store.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{Key: "documents/gen.PDF", Size: 1}, nil)
		m.docs.On("Create", ctx, mock.Anything).Return(&model.Document{ID: "doc-3"}, nil)

		in := validUpload(r)
		in.FileName = "HANDBOOK.PDF"

		_, err := svc.Upload(ctx, adminActor, in)
		assert.NoError(t, err)
	})

	t.Run("invalid access level", func(t *testing.T) {
		svc, _ := newDocService()
		in := validUpload(strings.NewReader("x"))
		in.AccessLevel = "secret"

		_, err := svc.Upload(ctx, adminActor, in)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown category", func(t *testing.T) {
		svc, m := newDocService()
		m.cats.On("FindByID", ctx, "cat-1").Return(nil, errs.ErrNotFound)

		_, err := svc.Upload(ctx, adminActor, validUpload(strings.NewReader("x")))
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("storage error", func(t *testing.T) {
		svc, m := newDocService()
		r := strings.NewReader("x")
		m.cats.On("FindByID", ctx, "cat-1").Return(&model.DocumentCategory{ID: "cat-1"}, nil)
		m.depts.On("FindByID", ctx, "dept-1").Return(&model.Department{ID: "dept-1"}, nil)
		m.store.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.Upload(ctx, adminActor, validUpload(r))
		assert.ErrorContains(t, err, "upload to storage: storage fail")
	})

	t.Run("repository error rolls back the blob", func(t *testing.T) {
		svc, m := newDocService()
		r := strings.NewReader("x")
		m.cats.On("FindByID", ctx, "cat-1").Return(&model.DocumentCategory{ID: "cat-1"}, nil)
		m.depts.On("FindByID", ctx, "dept-1").Return(&model.Department{ID: "dept-1"}, nil)
		m.store.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
				return storage.ObjectInfo{Key: key}
			}, nil)
		m.docs.On("Create", ctx, mock.Anything).Return(nil, errors.New("db fail"))
		m.store.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.Upload(ctx, adminActor, validUpload(r))
		assert.ErrorContains(t, err, "db save failed: db fail")
		m.store.AssertCalled(t, "Delete", ctx, mock.Anything)
	})
}

func TestDocumentService_Get(t *testing.T) {
	ctx := context.Background()
	meta := RequestMeta{IP: "10.0.0.1", UserAgent: "curl/8.0"}
	doc := &model.Document{ID: "doc-1", AccessLevel: model.AccessDepartment, DepartmentID: "dept-1", FileName: "handbook.pdf"}

	t.Run("view allowed and journaled", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.audit.On("Create", ctx, mock.MatchedBy(func(e *model.ActivityLogEntry) bool {
			return e.Action == model.ActionView &&
				e.UserID == "u-emp" &&
				e.DocumentID == "doc-1" &&
				e.IPAddress == "10.0.0.1" &&
				e.UserAgent == "curl/8.0"
		})).Return(nil)

		out, err := svc.Get(ctx, employeeActor, "doc-1", meta)
		require.NoError(t, err)
		assert.Equal(t, "doc-1", out.ID)
		m.audit.AssertExpectations(t)
	})

	t.Run("department mismatch is forbidden and not journaled", func(t *testing.T) {
		svc, m := newDocService()
		other := model.Actor{ID: "u-x", Role: model.RoleEmployee, DepartmentID: strPtr("dept-2")}
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, err := svc.Get(ctx, other, "doc-1", meta)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		m.audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing document", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "missing").Return(nil, errs.ErrNotFound)

		_, err := svc.Get(ctx, employeeActor, "missing", meta)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("audit write failure does not fail the request", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.audit.On("Create", ctx, mock.Anything).Return(errors.New("audit db down"))

		_, err := svc.Get(ctx, employeeActor, "doc-1", meta)
		assert.NoError(t, err)
	})
}

func TestDocumentService_Download(t *testing.T) {
	ctx := context.Background()
	meta := RequestMeta{IP: "10.0.0.1", UserAgent: "curl/8.0"}
	doc := &model.Document{
		ID: "doc-1", AccessLevel: model.AccessPrivate, UploadedBy: "u-mgr",
		FileName: "handbook.pdf", FilePath: "documents/gen.pdf",
	}

	t.Run("streams, increments and journals", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.store.On("Get", ctx, "documents/gen.pdf").
			Return(io.NopCloser(strings.NewReader("bytes")), storage.ObjectInfo{Key: "documents/gen.pdf"}, nil)
		m.docs.On("IncrementDownloadCount", ctx, "doc-1").Return(int64(4), nil)
		m.audit.On("Create", ctx, mock.MatchedBy(func(e *model.ActivityLogEntry) bool {
			return e.Action == model.ActionDownload && e.Details == "Downloaded file: handbook.pdf"
		})).Return(nil)

		rc, out, err := svc.Download(ctx, managerActor, "doc-1", meta)
		require.NoError(t, err)
		defer rc.Close()

		assert.Equal(t, int64(4), out.DownloadCount)
		m.docs.AssertExpectations(t)
		m.audit.AssertExpectations(t)
	})

	t.Run("forbidden for non-uploader", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, _, err := svc.Download(ctx, employeeActor, "doc-1", meta)
		assert.ErrorIs(t, err, errs.ErrForbidden)
		m.docs.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("storage failure aborts before increment", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.store.On("Get", ctx, "documents/gen.pdf").
			Return(nil, storage.ObjectInfo{}, errors.New("blob gone"))

		_, _, err := svc.Download(ctx, adminActor, "doc-1", meta)
		assert.ErrorContains(t, err, "fetch storage")
		m.docs.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})
}

func TestDocumentService_Update(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{
		ID: "doc-1", Title: "Old", Description: "old desc", CategoryID: "cat-1",
		AccessLevel: model.AccessPublic, UploadedBy: "u-mgr",
	}

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.docs.On("Update", ctx, "doc-1", repository.DocumentUpdate{
			Title:       "New title",
			Description: "old desc",
			CategoryID:  "cat-1",
			AccessLevel: model.AccessPublic,
		}).Return(&model.Document{ID: "doc-1", Title: "New title"}, nil)

		out, err := svc.Update(ctx, managerActor, "doc-1", UpdateInput{Title: strPtr("New title")})
		require.NoError(t, err)
		assert.Equal(t, "New title", out.Title)
		m.docs.AssertExpectations(t)
	})

	t.Run("non-owner manager forbidden", func(t *testing.T) {
		svc, m := newDocService()
		other := model.Actor{ID: "u-other", Role: model.RoleManager, DepartmentID: strPtr("dept-1")}
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, err := svc.Update(ctx, other, "doc-1", UpdateInput{Title: strPtr("X")})
		assert.ErrorIs(t, err, errs.ErrForbidden)
	})

	t.Run("invalid access level", func(t *testing.T) {
		svc, m := newDocService()
		bad := model.AccessLevel("secret")
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		_, err := svc.Update(ctx, adminActor, "doc-1", UpdateInput{AccessLevel: &bad})
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestDocumentService_Delete(t *testing.T) {
	ctx := context.Background()
	doc := &model.Document{ID: "doc-1", FilePath: "documents/gen.pdf", UploadedBy: "u-mgr"}

	t.Run("blob then record", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.store.On("Delete", ctx, "documents/gen.pdf").Return(nil)
		m.docs.On("Delete", ctx, "doc-1").Return(nil)

		assert.NoError(t, svc.Delete(ctx, managerActor, "doc-1"))
		m.docs.AssertExpectations(t)
	})

	t.Run("blob failure aborts the record delete", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)
		m.store.On("Delete", ctx, "documents/gen.pdf").Return(errors.New("blob locked"))

		err := svc.Delete(ctx, managerActor, "doc-1")
		assert.ErrorContains(t, err, "delete storage")
		m.docs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		svc, m := newDocService()
		m.docs.On("FindByID", ctx, "doc-1").Return(doc, nil)

		assert.ErrorIs(t, svc.Delete(ctx, employeeActor, "doc-1"), errs.ErrForbidden)
	})
}

func TestDocumentService_List(t *testing.T) {
	ctx := context.Background()

	svc, m := newDocService()
	m.docs.On("List", ctx, mock.MatchedBy(func(q repository.DocumentQuery) bool {
		return q.Actor == employeeActor &&
			q.Search == "handbook" &&
			q.Page.Limit == documentPageSize &&
			q.Page.Offset == documentPageSize // page 2
	})).Return(&repository.PageResult[model.Document]{
		Items: []model.Document{{ID: "doc-1"}},
		Total: 21,
	}, nil)

	res, err := svc.List(ctx, employeeActor, ListQuery{Search: "handbook", Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 21, res.Total)
	assert.Equal(t, 2, res.Page)
	m.docs.AssertExpectations(t)
}
