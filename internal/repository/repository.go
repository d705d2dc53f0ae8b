package repository

import (
	"context"

	"shoeshop/internal/domain"
)

// Repository is the uniform data-access contract over users, products,
// brands and comments. Two implementations exist (memory, postgres); callers
// must observe identical behavior from both for the same logical queries.
//
// Absent entities surface as domain.ErrNotFound, uniqueness violations as
// domain.ErrAlreadyExists, and comments failing the cross-reference
// invariant as domain.ErrCommentNotAttached.
type Repository interface {
	// AddUser stores a user. The username is a uniqueness key: storing a
	// second user with the same username fails with domain.ErrAlreadyExists
	// and leaves the first user's data untouched.
	AddUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, username string) (*domain.User, error)
	// UpdateCollection persists the user's current collection list.
	UpdateCollection(ctx context.Context, u *domain.User) error

	AddProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// GetProductsByID resolves ids positionally: the result has the same
	// length and order as ids, with nil entries for misses.
	GetProductsByID(ctx context.Context, ids []string) ([]*domain.Product, error)
	NumberOfProducts(ctx context.Context) (int, error)

	// FirstProduct and LastProduct are the extremes of the total order
	// (price ascending, id tie-break).
	FirstProduct(ctx context.Context) (*domain.Product, error)
	LastProduct(ctx context.Context) (*domain.Product, error)
	// ProductsByPrice returns every product at exactly the given price,
	// ordered by id; empty when none match.
	ProductsByPrice(ctx context.Context, price int64) ([]*domain.Product, error)
	// PriceOfPreviousProduct returns the nearest distinct price strictly
	// below the product's price, or nil at the lower boundary. The product
	// must already be stored.
	PriceOfPreviousProduct(ctx context.Context, p *domain.Product) (*int64, error)
	// PriceOfNextProduct is the strictly-above counterpart.
	PriceOfNextProduct(ctx context.Context, p *domain.Product) (*int64, error)

	// ProductIDsForBrand returns the ids of products carrying the brand, in
	// association order. An unknown brand yields an empty list, not an error.
	ProductIDsForBrand(ctx context.Context, brandName string) ([]string, error)
	// ProductIDsByName returns the ids of products whose name contains the
	// fragment.
	ProductIDsByName(ctx context.Context, fragment string) ([]string, error)

	AddBrand(ctx context.Context, b *domain.Brand) error
	GetBrands(ctx context.Context) ([]*domain.Brand, error)

	// AddComment stores a comment created via domain.MakeComment. Comments
	// not registered on both their user and product are rejected with
	// domain.ErrCommentNotAttached before anything is written.
	AddComment(ctx context.Context, c *domain.Comment) error
	GetComments(ctx context.Context) ([]*domain.Comment, error)
	CommentsForProduct(ctx context.Context, productID string) ([]*domain.Comment, error)
}
