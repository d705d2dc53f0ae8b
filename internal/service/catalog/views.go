package catalog

import "time"

// View records are the transport-agnostic shapes handed to presentation
// layers. Field sets are fixed; callers rely on their exact presence.

type ProductView struct {
	ID             string        `json:"id"`
	Price          int64         `json:"price"`
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Hyperlink      string        `json:"hyperlink"`
	ImageHyperlink string        `json:"image_hyperlink"`
	Comments       []CommentView `json:"comments"`
	Brand          *BrandView    `json:"brand,omitempty"`
}

type CommentView struct {
	Username    string    `json:"username"`
	ProductID   string    `json:"product_id"`
	CommentText string    `json:"comment_text"`
	Timestamp   time.Time `json:"timestamp"`
}

type BrandView struct {
	Name            string   `json:"name"`
	BrandedProducts []string `json:"branded_products"`
}
