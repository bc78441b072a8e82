// Package repository implements data access on top of GORM.  Sentinel
// errors defined here let handlers translate failures into the uniform
// HTTP error body without inspecting storage details: ErrNotFound maps to
// 404, ErrForbidden to 403, ErrConflict to 409 and ErrDuplicate to 400.
package repository

import "errors"

// ErrNotFound is returned whenever a referenced entity does not exist.
// Every missing-entity path reports this one kind; nothing leaks through
// as a generic 500.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller is not allowed to act on the
// resource: wrong actor for a connection transition, non-member of a
// group, insufficient participant role, or not the owner of a post.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an entity is in the wrong lifecycle state
// for the attempted transition, e.g. accepting a connection that is no
// longer PENDING.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned when a write collides with an existing record,
// either via an explicit lookup or a unique-constraint violation.
var ErrDuplicate = errors.New("already exists")
