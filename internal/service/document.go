package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/policy"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
	"github.com/matkmin/Document-Management-System-Backend/internal/storage"
)

// documentPageSize is the fixed page size for document listings.
const documentPageSize = 20

// maxUploadSize caps uploaded files at 10 MiB.
const maxUploadSize = 10 << 20

// allowedExtensions lists the accepted upload file types, keyed by the
// lowercased extension without the leading dot.
var allowedExtensions = map[string]bool{
	"pdf":  true,
	"docx": true,
	"xlsx": true,
	"jpg":  true,
	"png":  true,
}

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
	Page  int              `json:"page"`
}

// ListQuery carries the optional listing filters from the HTTP layer.
// The accessibility scope is derived from the actor, never from the query.
type ListQuery struct {
	Search       string
	CategoryID   string
	DepartmentID string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	SortBy       string
	SortDir      string
	Page         int
}

// UploadInput carries a validated-at-the-edge upload request.
type UploadInput struct {
	Title        string
	Description  string
	CategoryID   string
	DepartmentID string
	AccessLevel  model.AccessLevel
	FileName     string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

// UpdateInput is a partial metadata update. Nil fields are left unchanged.
// File contents and uploader are immutable after creation.
type UpdateInput struct {
	Title       *string
	Description *string
	CategoryID  *string
	AccessLevel *model.AccessLevel
}

// RequestMeta carries the client attributes journaled with view/download actions.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// DocumentService defines the document use cases. Every operation takes the
// acting user; authorization runs here, in front of persistence.
type DocumentService interface {
	// List returns one page of documents the actor may view.
	List(ctx context.Context, actor model.Actor, q ListQuery) (*DocumentListResult, error)

	// Get returns a single document if the actor may view it, and journals the view.
	Get(ctx context.Context, actor model.Actor, id string, meta RequestMeta) (*model.Document, error)

	// Upload stores the file bytes, persists the metadata record, and rolls
	// back storage if the record insert fails.
	Upload(ctx context.Context, actor model.Actor, in UploadInput) (*model.Document, error)

	// Update applies a partial metadata update.
	Update(ctx context.Context, actor model.Actor, id string, in UpdateInput) (*model.Document, error)

	// Delete removes the blob first and aborts if that fails, then removes the record.
	Delete(ctx context.Context, actor model.Actor, id string) error

	// Download streams the file, increments the download counter and journals
	// the download. The caller must close the reader.
	Download(ctx context.Context, actor model.Actor, id string, meta RequestMeta) (io.ReadCloser, *model.Document, error)
}

type documentService struct {
	store storage.Storage
	docs  repository.DocumentRepository
	cats  repository.CategoryRepository
	depts repository.DepartmentRepository
	audit repository.ActivityLogRepository
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	docs repository.DocumentRepository,
	cats repository.CategoryRepository,
	depts repository.DepartmentRepository,
	audit repository.ActivityLogRepository,
) DocumentService {
	return &documentService{store: store, docs: docs, cats: cats, depts: depts, audit: audit}
}

func (s *documentService) List(ctx context.Context, actor model.Actor, q ListQuery) (*DocumentListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	res, err := s.docs.List(ctx, repository.DocumentQuery{
		Actor:        actor,
		Search:       q.Search,
		CategoryID:   q.CategoryID,
		DepartmentID: q.DepartmentID,
		CreatedFrom:  q.CreatedFrom,
		CreatedTo:    q.CreatedTo,
		SortBy:       q.SortBy,
		SortDir:      q.SortDir,
		Page: repository.PageQuery{
			Limit:  documentPageSize,
			Offset: (page - 1) * documentPageSize,
		},
	})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total, Page: page}, nil
}

func (s *documentService) Get(ctx context.Context, actor model.Actor, id string, meta RequestMeta) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actor, doc) {
		return nil, errs.ErrForbidden
	}

	s.journal(ctx, actor, doc, model.ActionView, "Viewed document details", meta)

	return doc, nil
}

func (s *documentService) Upload(ctx context.Context, actor model.Actor, in UploadInput) (*model.Document, error) {
	if !policy.CanCreate(actor) {
		return nil, errs.ErrForbidden
	}

	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if !in.AccessLevel.Valid() {
		return nil, fmt.Errorf("%w: access_level must be public, department or private", errs.ErrValidation)
	}
	if in.Reader == nil {
		return nil, fmt.Errorf("%w: file is required", errs.ErrValidation)
	}
	if in.Size > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds the 10 MB limit", errs.ErrValidation)
	}
	if !allowedExtensions[strings.ToLower(strings.TrimPrefix(filepath.Ext(in.FileName), "."))] {
		return nil, fmt.Errorf("%w: file type must be pdf, docx, xlsx, jpg or png", errs.ErrValidation)
	}
	if _, err := s.cats.FindByID(ctx, in.CategoryID); err != nil {
		return nil, fmt.Errorf("%w: unknown category", errs.ErrValidation)
	}
	if _, err := s.depts.FindByID(ctx, in.DepartmentID); err != nil {
		return nil, fmt.Errorf("%w: unknown department", errs.ErrValidation)
	}

	// Managers only upload into their own department. Checked after field
	// validation and reported as a permission error, not a validation error.
	if actor.Role == model.RoleManager {
		if actor.DepartmentID == nil || *actor.DepartmentID != in.DepartmentID {
			return nil, fmt.Errorf("%w: managers can only upload to their own department", errs.ErrForbidden)
		}
	}

	// Store under a generated key, independent of the user-supplied filename.
	ext := filepath.Ext(in.FileName)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	objInfo, err := s.store.Put(ctx, key, in.Reader, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.FileName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	doc := &model.Document{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Description:  in.Description,
		FileName:     in.FileName,
		FilePath:     objInfo.Key,
		FileType:     strings.TrimPrefix(ext, "."),
		FileSize:     objInfo.Size,
		CategoryID:   in.CategoryID,
		DepartmentID: in.DepartmentID,
		UploadedBy:   actor.ID,
		AccessLevel:  in.AccessLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	stored, err := s.docs.Create(ctx, doc)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) Update(ctx context.Context, actor model.Actor, id string, in UpdateInput) (*model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdate(actor, doc) {
		return nil, errs.ErrForbidden
	}

	upd := repository.DocumentUpdate{
		Title:       doc.Title,
		Description: doc.Description,
		CategoryID:  doc.CategoryID,
		AccessLevel: doc.AccessLevel,
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", errs.ErrValidation)
		}
		upd.Title = *in.Title
	}
	if in.Description != nil {
		upd.Description = *in.Description
	}
	if in.CategoryID != nil {
		if _, err := s.cats.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: unknown category", errs.ErrValidation)
		}
		upd.CategoryID = *in.CategoryID
	}
	if in.AccessLevel != nil {
		if !in.AccessLevel.Valid() {
			return nil, fmt.Errorf("%w: access_level must be public, department or private", errs.ErrValidation)
		}
		upd.AccessLevel = *in.AccessLevel
	}

	return s.docs.Update(ctx, id, upd)
}

func (s *documentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDelete(actor, doc) {
		return errs.ErrForbidden
	}

	// Blob first. If the blob cannot be removed the record is kept, so the
	// file stays reachable instead of leaving a dangling reference.
	if err := s.store.Delete(ctx, doc.FilePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.docs.Delete(ctx, id)
}

func (s *documentService) Download(ctx context.Context, actor model.Actor, id string, meta RequestMeta) (io.ReadCloser, *model.Document, error) {
	doc, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !policy.CanView(actor, doc) {
		return nil, nil, errs.ErrForbidden
	}

	rc, _, err := s.store.Get(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch storage: %w", err)
	}

	count, err := s.docs.IncrementDownloadCount(ctx, id)
	if err != nil {
		rc.Close()
		return nil, nil, err
	}
	doc.DownloadCount = count

	s.journal(ctx, actor, doc, model.ActionDownload, "Downloaded file: "+doc.FileName, meta)

	return rc, doc, nil
}

// journal appends an audit entry after the guarded operation already
// succeeded. The write is best-effort: a failed audit insert is logged and
// never fails the parent request.
func (s *documentService) journal(ctx context.Context, actor model.Actor, doc *model.Document, action model.LogAction, details string, meta RequestMeta) {
	entry := &model.ActivityLogEntry{
		ID:         uuid.New().String(),
		UserID:     actor.ID,
		DocumentID: doc.ID,
		Action:     action,
		Details:    details,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		b, _ := json.Marshal(map[string]any{
			"level":       "warn",
			"msg":         "activity_log_write_failed",
			"action":      action,
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		log.SetFlags(0)
		log.Println(string(b))
	}
}
