package handler

import (
	"mime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/matkmin/Document-Management-System-Backend/internal/http/middleware"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/service"
)

// parseDateQuery accepts either a bare date or a full RFC 3339 timestamp.
func parseDateQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseEndDateQuery is parseDateQuery for the upper bound of a range. A bare
// date is pushed to the last instant of that day so the range stays inclusive
// under the repository's created_at <= comparison.
func parseEndDateQuery(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		t = t.Add(24*time.Hour - time.Nanosecond)
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func requestMeta(c *fiber.Ctx) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
	}
}

// ListDocuments returns one page of documents visible to the caller, with
// optional search, category, department, and date-range filters.
func ListDocuments(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		from, err := parseDateQuery(c.Query("created_from"))
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid created_from date")
		}
		to, err := parseEndDateQuery(c.Query("created_to"))
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid created_to date")
		}

		res, err := docs.List(c.UserContext(), actor, service.ListQuery{
			Search:       c.Query("search"),
			CategoryID:   c.Query("category_id"),
			DepartmentID: c.Query("department_id"),
			CreatedFrom:  from,
			CreatedTo:    to,
			SortBy:       c.Query("sort_by"),
			SortDir:      c.Query("sort_dir"),
			Page:         c.QueryInt("page", 1),
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(res)
	}
}

// GetDocument returns a single document's metadata and records the view.
func GetDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		doc, err := docs.Get(c.UserContext(), actor, id, requestMeta(c))
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(doc)
	}
}

// UploadDocument accepts a multipart form with the file under "file" plus the
// metadata fields, and creates the document record.
func UploadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get(fiber.HeaderContentType)
		if ct == "" {
			ct = "application/octet-stream"
		}

		doc, err := docs.Upload(c.UserContext(), actor, service.UploadInput{
			Title:        c.FormValue("title"),
			Description:  c.FormValue("description"),
			CategoryID:   c.FormValue("category_id"),
			DepartmentID: c.FormValue("department_id"),
			AccessLevel:  model.AccessLevel(c.FormValue("access_level")),
			FileName:     fh.Filename,
			ContentType:  ct,
			Size:         fh.Size,
			Reader:       f,
		})
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

type documentUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	AccessLevel *string `json:"access_level"`
}

// UpdateDocument applies a partial metadata update. Absent fields are left unchanged.
func UpdateDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		var req documentUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "malformed request body")
		}

		in := service.UpdateInput{
			Title:       req.Title,
			Description: req.Description,
			CategoryID:  req.CategoryID,
		}
		if req.AccessLevel != nil {
			level := model.AccessLevel(*req.AccessLevel)
			in.AccessLevel = &level
		}

		doc, err := docs.Update(c.UserContext(), actor, id, in)
		if err != nil {
			return writeServiceError(c, err)
		}

		return c.JSON(doc)
	}
}

// DeleteDocument removes the stored file and its metadata record.
func DeleteDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		if err := docs.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// DownloadDocument streams the file bytes back as an attachment and records
// the download.
func DownloadDocument(docs service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := middleware.ActorFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid access token")
		}

		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
		}

		rc, doc, err := docs.Download(c.UserContext(), actor, id, requestMeta(c))
		if err != nil {
			return writeServiceError(c, err)
		}

		// FileType holds the bare extension; resolve it to a media type.
		ct := mime.TypeByExtension("." + doc.FileType)
		if ct == "" {
			ct = "application/octet-stream"
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{
			"filename": doc.FileName,
		}))

		// fasthttp closes body stream readers that implement io.Closer.
		return c.SendStream(rc, int(doc.FileSize))
	}
}
