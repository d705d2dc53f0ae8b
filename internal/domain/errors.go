package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation (e.g. duplicate username).
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyBranded is returned when associating a brand with a product
	// that already carries one.
	ErrAlreadyBranded = errors.New("product already branded")
	// ErrCommentNotAttached is returned when a comment is not reachable from
	// both its user and its product.
	ErrCommentNotAttached = errors.New("comment not attached to user and product")
)
