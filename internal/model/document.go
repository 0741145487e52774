package model

import "time"

// AccessLevel is the per-document visibility tag.
type AccessLevel string

const (
	AccessPublic     AccessLevel = "public"
	AccessDepartment AccessLevel = "department"
	AccessPrivate    AccessLevel = "private"
)

// Valid reports whether a is one of the enumerated access levels.
// Values outside the set must be rejected at write time.
func (a AccessLevel) Valid() bool {
	switch a {
	case AccessPublic, AccessDepartment, AccessPrivate:
		return true
	}
	return false
}

// Document represents a stored file and its metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	FileName      string      `json:"file_name"`
	FilePath      string      `json:"file_path"`
	FileType      string      `json:"file_type"`
	FileSize      int64       `json:"file_size"`
	CategoryID    string      `json:"category_id"`
	DepartmentID  string      `json:"department_id"`
	UploadedBy    string      `json:"uploaded_by"`
	AccessLevel   AccessLevel `json:"access_level"`
	DownloadCount int64       `json:"download_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
