package domain

import (
	"slices"
	"time"
)

// Restore helpers rebuild relationship state from persisted rows. They exist
// for repository implementations loading entities; application code creates
// relationships through MakeComment and MakeBrandAssociation only.

// RestoreUser attaches persisted comment ids and collection to a scanned user.
func RestoreUser(u *User, commentIDs, collection []string) {
	u.comments = slices.Clone(commentIDs)
	u.collection = slices.Clone(collection)
}

// RestoreProduct attaches persisted comment ids and brand name to a scanned
// product. An empty brandName means unbranded.
func RestoreProduct(p *Product, commentIDs []string, brandName string) {
	p.comments = slices.Clone(commentIDs)
	p.brandName = brandName
}

// RestoreBrand attaches the persisted branded-product ids to a scanned brand.
func RestoreBrand(b *Brand, productIDs []string) {
	b.products = slices.Clone(productIDs)
}

// RestoreComment rebuilds a stored comment with its back-references. It does
// not register the comment on either side: the ids are already present in
// the lists restored onto the user and product.
func RestoreComment(id, text string, ts time.Time, u *User, p *Product) *Comment {
	return &Comment{ID: id, Text: text, Timestamp: ts, user: u, product: p}
}
