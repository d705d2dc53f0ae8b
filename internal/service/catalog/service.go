// Package catalog is the service layer over the repository contract: it
// resolves entities, enforces existence checks and flattens results into
// view records. It performs no pagination; callers slice the id lists it
// returns.
package catalog

import (
	"context"
	"errors"

	"shoeshop/internal/domain"
	"shoeshop/internal/repository"
)

var (
	// ErrNonExistentProduct is returned when the requested product is absent.
	ErrNonExistentProduct = errors.New("product does not exist")
	// ErrUnknownUser is returned when the named user is absent.
	ErrUnknownUser = errors.New("unknown user")
)

type Service struct {
	repo repository.Repository
}

// New creates a Service. The repository is injected once here and never read
// from ambient state.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Product returns the product as a view record, or ErrNonExistentProduct.
func (s *Service) Product(ctx context.Context, id string) (*ProductView, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNonExistentProduct
		}
		return nil, err
	}
	return s.productView(ctx, p)
}

func (s *Service) FirstProduct(ctx context.Context) (*ProductView, error) {
	p, err := s.repo.FirstProduct(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNonExistentProduct
		}
		return nil, err
	}
	return s.productView(ctx, p)
}

func (s *Service) LastProduct(ctx context.Context) (*ProductView, error) {
	p, err := s.repo.LastProduct(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNonExistentProduct
		}
		return nil, err
	}
	return s.productView(ctx, p)
}

// ProductsByPrice returns every product at the target price together with
// the previous and next distinct prices (nil at the boundaries), saving
// callers two round trips.
func (s *Service) ProductsByPrice(ctx context.Context, price int64) ([]ProductView, *int64, *int64, error) {
	products, err := s.repo.ProductsByPrice(ctx, price)
	if err != nil {
		return nil, nil, nil, err
	}

	views := []ProductView{}
	var prevPrice, nextPrice *int64
	if len(products) > 0 {
		if prevPrice, err = s.repo.PriceOfPreviousProduct(ctx, products[0]); err != nil {
			return nil, nil, nil, err
		}
		if nextPrice, err = s.repo.PriceOfNextProduct(ctx, products[0]); err != nil {
			return nil, nil, nil, err
		}
		for _, p := range products {
			v, err := s.productView(ctx, p)
			if err != nil {
				return nil, nil, nil, err
			}
			views = append(views, *v)
		}
	}
	return views, prevPrice, nextPrice, nil
}

// ProductIDsForBrand returns the raw id list for a brand; empty for an
// unknown brand.
func (s *Service) ProductIDsForBrand(ctx context.Context, brandName string) ([]string, error) {
	return s.repo.ProductIDsForBrand(ctx, brandName)
}

// ProductIDsByName returns the ids of products whose name contains the
// fragment.
func (s *Service) ProductIDsByName(ctx context.Context, fragment string) ([]string, error) {
	return s.repo.ProductIDsByName(ctx, fragment)
}

// ProductsByID resolves ids positionally; missing ids yield nil entries.
func (s *Service) ProductsByID(ctx context.Context, ids []string) ([]*ProductView, error) {
	products, err := s.repo.GetProductsByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]*ProductView, len(products))
	for i, p := range products {
		if p == nil {
			continue
		}
		if views[i], err = s.productView(ctx, p); err != nil {
			return nil, err
		}
	}
	return views, nil
}

func (s *Service) NumberOfProducts(ctx context.Context) (int, error) {
	return s.repo.NumberOfProducts(ctx)
}

func (s *Service) CommentsForProduct(ctx context.Context, productID string) ([]CommentView, error) {
	comments, err := s.repo.CommentsForProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrNonExistentProduct
		}
		return nil, err
	}
	return commentViews(comments), nil
}

// AddComment resolves the product and user, creates the cross-referenced
// comment and stores it. Existence checks run before any mutation.
func (s *Service) AddComment(ctx context.Context, productID, text, username string) error {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNonExistentProduct
		}
		return err
	}
	u, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrUnknownUser
		}
		return err
	}

	c := domain.MakeComment(text, u, p)
	return s.repo.AddComment(ctx, c)
}

func (s *Service) Brands(ctx context.Context) ([]BrandView, error) {
	brands, err := s.repo.GetBrands(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]BrandView, 0, len(brands))
	for _, b := range brands {
		views = append(views, BrandView{Name: b.Name, BrandedProducts: b.BrandedProducts()})
	}
	return views, nil
}

// Collection returns the user's saved products in insertion order.
func (s *Service) Collection(ctx context.Context, username string) ([]ProductView, error) {
	u, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}

	products, err := s.repo.GetProductsByID(ctx, u.Collection())
	if err != nil {
		return nil, err
	}
	views := []ProductView{}
	for _, p := range products {
		if p == nil {
			continue
		}
		v, err := s.productView(ctx, p)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, nil
}

// AddToCollection saves a product for the user. Saving a product that is
// already in the collection is a no-op.
func (s *Service) AddToCollection(ctx context.Context, username, productID string) error {
	u, p, err := s.resolveUserAndProduct(ctx, username, productID)
	if err != nil {
		return err
	}
	u.AddToCollection(p.ID)
	return s.repo.UpdateCollection(ctx, u)
}

// RemoveFromCollection drops a product from the user's collection; removing
// a product that is not in the collection is a no-op.
func (s *Service) RemoveFromCollection(ctx context.Context, username, productID string) error {
	u, p, err := s.resolveUserAndProduct(ctx, username, productID)
	if err != nil {
		return err
	}
	u.RemoveFromCollection(p.ID)
	return s.repo.UpdateCollection(ctx, u)
}

func (s *Service) resolveUserAndProduct(ctx context.Context, username, productID string) (*domain.User, *domain.Product, error) {
	u, err := s.repo.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrUnknownUser
		}
		return nil, nil, err
	}
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, ErrNonExistentProduct
		}
		return nil, nil, err
	}
	return u, p, nil
}

func (s *Service) productView(ctx context.Context, p *domain.Product) (*ProductView, error) {
	comments, err := s.repo.CommentsForProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	view := &ProductView{
		ID:             p.ID,
		Price:          p.Price,
		Name:           p.Name,
		Description:    p.Description,
		Hyperlink:      p.Hyperlink,
		ImageHyperlink: p.ImageHyperlink,
		Comments:       commentViews(comments),
	}

	if p.Branded() {
		ids, err := s.repo.ProductIDsForBrand(ctx, p.BrandName())
		if err != nil {
			return nil, err
		}
		view.Brand = &BrandView{Name: p.BrandName(), BrandedProducts: ids}
	}
	return view, nil
}

func commentViews(comments []*domain.Comment) []CommentView {
	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, CommentView{
			Username:    c.Username(),
			ProductID:   c.ProductID(),
			CommentText: c.Text,
			Timestamp:   c.Timestamp,
		})
	}
	return views
}
