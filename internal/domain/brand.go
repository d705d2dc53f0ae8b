package domain

import "slices"

// Brand is identified by its name (case-sensitive). The branded product list
// is a back-reference populated only through MakeBrandAssociation.
type Brand struct {
	Name string `json:"name"`

	products []string // product ids, association order
}

func NewBrand(name string) *Brand {
	return &Brand{Name: name}
}

// BrandedProducts returns the ids of products carrying the brand.
func (b *Brand) BrandedProducts() []string {
	return slices.Clone(b.products)
}

func (b *Brand) NumberOfBrandedProducts() int {
	return len(b.products)
}

// AppliedTo reports whether the brand is associated with the product. This
// holds from both directions: b.AppliedTo(p) iff p.BrandedBy(b).
func (b *Brand) AppliedTo(p *Product) bool {
	return p != nil && p.brandName == b.Name
}

// MakeBrandAssociation associates a brand with a product, updating both
// sides as a unit. A product carries at most one brand: associating an
// already-branded product fails with ErrAlreadyBranded.
func MakeBrandAssociation(p *Product, b *Brand) error {
	if p.Branded() {
		return ErrAlreadyBranded
	}
	p.brandName = b.Name
	b.products = append(b.products, p.ID)
	return nil
}
