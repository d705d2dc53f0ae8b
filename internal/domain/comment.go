package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is immutable once created. It references exactly one user (the
// author) and exactly one product. The back-references are settable only at
// construction; repositories reject comments that are not registered on both
// sides (see Attached).
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	user    *User
	product *Product
}

// NewComment builds a comment without registering it on either side. This is
// the low-level path; repositories will refuse to store the result until
// both the user's and the product's comment lists include it.
func NewComment(u *User, p *Product, text string, ts time.Time) *Comment {
	return &Comment{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: ts,
		user:      u,
		product:   p,
	}
}

// MakeComment builds a comment and registers it on both the user's and the
// product's comment lists. It is the only sanctioned way to create a
// cross-referenced comment. Both u and p must be non-nil.
func MakeComment(text string, u *User, p *Product) *Comment {
	c := NewComment(u, p, text, time.Now().UTC())
	u.AddComment(c)
	p.AddComment(c)
	return c
}

func (c *Comment) User() *User {
	return c.user
}

func (c *Comment) Product() *Product {
	return c.product
}

// Username returns the author's username, or "" when the comment has no user.
func (c *Comment) Username() string {
	if c.user == nil {
		return ""
	}
	return c.user.Username
}

// ProductID returns the target product's id, or "" when the comment has no
// product.
func (c *Comment) ProductID() string {
	if c.product == nil {
		return ""
	}
	return c.product.ID
}

// Attached reports whether the comment is reachable from both its user's and
// its product's comment lists. Repositories require this before storing a
// comment.
func (c *Comment) Attached() bool {
	return c.user != nil && c.product != nil &&
		c.user.HasComment(c) && c.product.HasComment(c)
}
