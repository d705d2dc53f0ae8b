// Package memory implements the repository contract in process memory. It
// backs tests and lightweight deployments. It assumes single-writer access:
// concurrent structural mutation needs external serialization.
package memory

import (
	"context"
	"io"
	"log"
	"sort"
	"strings"

	"shoeshop/internal/domain"
	"shoeshop/internal/repository"
)

type memoryRepo struct {
	logger *log.Logger

	users    map[string]*domain.User
	products map[string]*domain.Product
	// sorted holds every product in the total order (price asc, id
	// tie-break); maintained on insert so first/last/neighbor queries are
	// index walks.
	sorted []*domain.Product

	brands     map[string]*domain.Brand
	brandNames []string // insertion order

	comments  []*domain.Comment
	byProduct map[string][]*domain.Comment
}

func New(logger *log.Logger) repository.Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &memoryRepo{
		logger:    logger,
		users:     make(map[string]*domain.User),
		products:  make(map[string]*domain.Product),
		brands:    make(map[string]*domain.Brand),
		byProduct: make(map[string][]*domain.Comment),
	}
}

func (r *memoryRepo) AddUser(_ context.Context, u *domain.User) error {
	if _, exists := r.users[u.Username]; exists {
		r.logger.Printf("memory repo: add user %s: already exists", u.Username)
		return domain.ErrAlreadyExists
	}
	r.users[u.Username] = u
	return nil
}

func (r *memoryRepo) GetUser(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (r *memoryRepo) UpdateCollection(_ context.Context, u *domain.User) error {
	if _, ok := r.users[u.Username]; !ok {
		return domain.ErrNotFound
	}
	r.users[u.Username] = u
	return nil
}

func (r *memoryRepo) AddProduct(_ context.Context, p *domain.Product) error {
	if _, exists := r.products[p.ID]; exists {
		r.logger.Printf("memory repo: add product %s: already exists", p.ID)
		return domain.ErrAlreadyExists
	}
	r.products[p.ID] = p

	at := sort.Search(len(r.sorted), func(i int) bool {
		return !r.sorted[i].Less(p)
	})
	r.sorted = append(r.sorted, nil)
	copy(r.sorted[at+1:], r.sorted[at:])
	r.sorted[at] = p
	return nil
}

func (r *memoryRepo) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) GetProductsByID(_ context.Context, ids []string) ([]*domain.Product, error) {
	result := make([]*domain.Product, len(ids))
	for i, id := range ids {
		result[i] = r.products[id] // nil for misses, position preserved
	}
	return result, nil
}

func (r *memoryRepo) NumberOfProducts(_ context.Context) (int, error) {
	return len(r.products), nil
}

func (r *memoryRepo) FirstProduct(_ context.Context) (*domain.Product, error) {
	if len(r.sorted) == 0 {
		return nil, domain.ErrNotFound
	}
	return r.sorted[0], nil
}

func (r *memoryRepo) LastProduct(_ context.Context) (*domain.Product, error) {
	if len(r.sorted) == 0 {
		return nil, domain.ErrNotFound
	}
	return r.sorted[len(r.sorted)-1], nil
}

func (r *memoryRepo) ProductsByPrice(_ context.Context, price int64) ([]*domain.Product, error) {
	from := sort.Search(len(r.sorted), func(i int) bool {
		return r.sorted[i].Price >= price
	})
	var result []*domain.Product
	for i := from; i < len(r.sorted) && r.sorted[i].Price == price; i++ {
		result = append(result, r.sorted[i])
	}
	return result, nil
}

func (r *memoryRepo) PriceOfPreviousProduct(_ context.Context, p *domain.Product) (*int64, error) {
	at, err := r.indexOf(p)
	if err != nil {
		return nil, err
	}
	// Walk backward past ties at the same price.
	for i := at - 1; i >= 0; i-- {
		if r.sorted[i].Price != p.Price {
			price := r.sorted[i].Price
			return &price, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) PriceOfNextProduct(_ context.Context, p *domain.Product) (*int64, error) {
	at, err := r.indexOf(p)
	if err != nil {
		return nil, err
	}
	for i := at + 1; i < len(r.sorted); i++ {
		if r.sorted[i].Price != p.Price {
			price := r.sorted[i].Price
			return &price, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) indexOf(p *domain.Product) (int, error) {
	at := sort.Search(len(r.sorted), func(i int) bool {
		return !r.sorted[i].Less(p)
	})
	if at == len(r.sorted) || r.sorted[at].ID != p.ID {
		return 0, domain.ErrNotFound
	}
	return at, nil
}

func (r *memoryRepo) ProductIDsForBrand(_ context.Context, brandName string) ([]string, error) {
	b, ok := r.brands[brandName]
	if !ok {
		return []string{}, nil
	}
	return b.BrandedProducts(), nil
}

func (r *memoryRepo) ProductIDsByName(_ context.Context, fragment string) ([]string, error) {
	needle := strings.ToLower(fragment)
	ids := []string{}
	for _, p := range r.sorted {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func (r *memoryRepo) AddBrand(_ context.Context, b *domain.Brand) error {
	if _, exists := r.brands[b.Name]; exists {
		return domain.ErrAlreadyExists
	}
	r.brands[b.Name] = b
	r.brandNames = append(r.brandNames, b.Name)
	return nil
}

func (r *memoryRepo) GetBrands(_ context.Context) ([]*domain.Brand, error) {
	brands := make([]*domain.Brand, 0, len(r.brandNames))
	for _, name := range r.brandNames {
		brands = append(brands, r.brands[name])
	}
	return brands, nil
}

func (r *memoryRepo) AddComment(_ context.Context, c *domain.Comment) error {
	if !c.Attached() {
		r.logger.Printf("memory repo: add comment: not attached")
		return domain.ErrCommentNotAttached
	}
	if _, ok := r.users[c.Username()]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.products[c.ProductID()]; !ok {
		return domain.ErrNotFound
	}
	r.comments = append(r.comments, c)
	r.byProduct[c.ProductID()] = append(r.byProduct[c.ProductID()], c)
	return nil
}

func (r *memoryRepo) GetComments(_ context.Context) ([]*domain.Comment, error) {
	result := make([]*domain.Comment, len(r.comments))
	copy(result, r.comments)
	return result, nil
}

func (r *memoryRepo) CommentsForProduct(_ context.Context, productID string) ([]*domain.Comment, error) {
	if _, ok := r.products[productID]; !ok {
		return nil, domain.ErrNotFound
	}
	comments := r.byProduct[productID]
	result := make([]*domain.Comment, len(comments))
	copy(result, comments)
	return result, nil
}
