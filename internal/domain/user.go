package domain

import "slices"

// User is identified by its username (case-sensitive). The comment and
// collection lists hold ids, never pointers; MakeComment and the collection
// methods are the only writers.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`

	comments   []string // comment ids, insertion order
	collection []string // product ids, insertion order
}

func NewUser(username, passwordHash string) *User {
	return &User{Username: username, PasswordHash: passwordHash}
}

// Comments returns the ids of comments authored by the user, oldest first.
func (u *User) Comments() []string {
	return slices.Clone(u.comments)
}

// AddComment registers a comment id on the user's side only. Callers almost
// always want MakeComment, which registers both sides.
func (u *User) AddComment(c *Comment) {
	u.comments = append(u.comments, c.ID)
}

func (u *User) HasComment(c *Comment) bool {
	return c != nil && slices.Contains(u.comments, c.ID)
}

// Collection returns the user's saved product ids in insertion order.
func (u *User) Collection() []string {
	return slices.Clone(u.collection)
}

func (u *User) InCollection(productID string) bool {
	return slices.Contains(u.collection, productID)
}

// AddToCollection saves a product id; adding an id already present is a no-op.
func (u *User) AddToCollection(productID string) {
	if u.InCollection(productID) {
		return
	}
	u.collection = append(u.collection, productID)
}

func (u *User) RemoveFromCollection(productID string) {
	u.collection = slices.DeleteFunc(u.collection, func(id string) bool {
		return id == productID
	})
}
