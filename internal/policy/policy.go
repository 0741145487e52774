// Package policy contains the pure authorization decisions for documents.
// All functions are side-effect free: the outcome depends only on the actor's
// role, department and id, and the document's access level, department and uploader.
package policy

import "github.com/matkmin/Document-Management-System-Backend/internal/model"

// CanView reports whether the actor may read or download the document.
// Admins see everything. Otherwise visibility follows the document's access level:
// public is open to all, department requires a matching department, private is
// restricted to the uploader. An actor without a department never matches a
// department-scoped document.
func CanView(actor model.Actor, doc *model.Document) bool {
	if actor.Role == model.RoleAdmin {
		return true
	}
	switch doc.AccessLevel {
	case model.AccessPublic:
		return true
	case model.AccessDepartment:
		return actor.DepartmentID != nil && *actor.DepartmentID == doc.DepartmentID
	case model.AccessPrivate:
		return actor.ID == doc.UploadedBy
	}
	return false
}

// CanCreate reports whether the actor may upload documents.
func CanCreate(actor model.Actor) bool {
	return actor.Role == model.RoleAdmin || actor.Role == model.RoleManager
}

// CanUpdate reports whether the actor may modify the document's metadata.
func CanUpdate(actor model.Actor, doc *model.Document) bool {
	if actor.Role == model.RoleAdmin {
		return true
	}
	return actor.Role == model.RoleManager && actor.ID == doc.UploadedBy
}

// CanDelete reports whether the actor may remove the document.
func CanDelete(actor model.Actor, doc *model.Document) bool {
	if actor.Role == model.RoleAdmin {
		return true
	}
	return actor.Role == model.RoleManager && actor.ID == doc.UploadedBy
}
