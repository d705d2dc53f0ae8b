package domain

import "slices"

// Product is identified by its id (an SKU-style token). Price is in currency
// minor units. The comment list holds comment ids; the brand association is
// the brand's name, written only by MakeBrandAssociation.
type Product struct {
	ID             string `json:"id"`
	Price          int64  `json:"price"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Hyperlink      string `json:"hyperlink,omitempty"`
	ImageHyperlink string `json:"imageHyperlink,omitempty"`
	Discount       int64  `json:"discount,omitempty"`

	comments  []string
	brandName string
}

// Less orders products by price ascending, id as tie-break. This is the
// total order behind first/last/neighbor queries.
func (p *Product) Less(other *Product) bool {
	if p.Price != other.Price {
		return p.Price < other.Price
	}
	return p.ID < other.ID
}

// Comments returns the ids of comments on the product, oldest first.
func (p *Product) Comments() []string {
	return slices.Clone(p.comments)
}

func (p *Product) NumberOfComments() int {
	return len(p.comments)
}

// AddComment registers a comment id on the product's side only. Callers
// almost always want MakeComment, which registers both sides.
func (p *Product) AddComment(c *Comment) {
	p.comments = append(p.comments, c.ID)
}

func (p *Product) HasComment(c *Comment) bool {
	return c != nil && slices.Contains(p.comments, c.ID)
}

func (p *Product) Branded() bool {
	return p.brandName != ""
}

// BrandName returns the associated brand's name, or "" when unbranded.
func (p *Product) BrandName() string {
	return p.brandName
}

func (p *Product) BrandedBy(b *Brand) bool {
	return b != nil && p.brandName == b.Name
}
