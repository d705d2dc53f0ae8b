// Package seed populates a repository with the demo catalog. It goes through
// the repository contract only, so the same data lands identically in the
// memory and postgres backends; tests reuse it as their fixture.
package seed

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"shoeshop/internal/domain"
	"shoeshop/internal/repository"
)

type productSeed struct {
	ID             string
	Price          int64
	Name           string
	Description    string
	Hyperlink      string
	ImageHyperlink string
	Discount       int64
	Brand          string
}

type userSeed struct {
	Username string
	Password string
}

type commentSeed struct {
	Username  string
	ProductID string
	Text      string
}

var users = []userSeed{
	{Username: "tobin", Password: "cLQ^C#oFXloS"},
	{Username: "irem", Password: "MSra(Z8G+sgb"},
}

var brandNames = []string{"ORIGINALS", "CORE / NEO", "SPORT PERFORMANCE"}

var products = []productSeed{
	{
		ID:             "AH2430",
		Price:          2999,
		Name:           "Women's adidas Originals NMD_Racer Primeknit Shoes",
		Description:    "Channeling the streamlined look of an '80s racer, these shoes are updated with modern features.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/AH2430_nmd_racerpkw",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-AH2430/WOMEN_Originals_SHOES_LOW_AH2430_1.jpg",
		Brand:          "ORIGINALS",
	},
	{
		ID:             "280648",
		Price:          2999,
		Name:           "Men's Originals Summer Adilette Slippers",
		Description:    "Lightweight slip-on slippers with a contoured footbed.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/280648_adilette",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-280648/MEN_Originals_SLIPPERS_280648_1.jpg",
		Brand:          "ORIGINALS",
	},
	{
		ID:             "CM6008",
		Price:          4999,
		Name:           "Men's Cricket Cri Hase Shoes",
		Description:    "Durable all-rounder cricket shoes with a grippy rubber outsole.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/CM6008_cri_hase",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-CM6008/MEN_Cricket_SHOES_CM6008_1.jpg",
		Discount:       2,
		Brand:          "SPORT PERFORMANCE",
	},
	{
		ID:             "EF3505",
		Price:          4999,
		Name:           "Men's adidas Sport Inspired Questar Ride Shoes",
		Description:    "Running-style shoes with Cloudfoam cushioning for all-day comfort.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/EF3505_questar_ride",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-EF3505/MEN_SPORT_SHOES_EF3505_1.jpg",
		Brand:          "CORE / NEO",
	},
	{
		ID:             "G27341",
		Price:          5999,
		Name:           "Men's adidas Originals Superstar Shoes",
		Description:    "The shell-toe classic, reissued with premium leather.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/G27341_superstar",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-G27341/MEN_Originals_SHOES_G27341_1.jpg",
		Brand:          "ORIGINALS",
	},
	{
		ID:             "D98205",
		Price:          5999,
		Name:           "Women's adidas Originals Sleek Shoes",
		Description:    "Clean court style with a subtly raised midsole.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/D98205_sleek",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-D98205/WOMEN_Originals_SHOES_D98205_1.jpg",
		Brand:          "ORIGINALS",
	},
	{
		ID:             "BC0980",
		Price:          7999,
		Name:           "Unisex adidas Outdoor Terrex Daroga Water Shoes",
		Description:    "Quick-drying water shoes for wet trails.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/BC0980_terrex_daroga",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-BC0980/UNISEX_Outdoor_SHOES_BC0980_1.jpg",
		Brand:          "SPORT PERFORMANCE",
	},
	{
		ID:             "EF9924",
		Price:          9999,
		Name:           "Men's adidas Basketball Harden Vol. 4 Shoes",
		Description:    "Signature basketball shoes built for shifty guards.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/EF9924_harden_vol4",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-EF9924/MEN_Basketball_SHOES_EF9924_1.jpg",
		Brand:          "SPORT PERFORMANCE",
	},
	{
		ID:             "S82260",
		Price:          12999,
		Name:           "Women's adidas ORIGINALS SUPERSTAR BOUNCE PK Low Shoes",
		Description:    "Primeknit superstars on a Bounce midsole.",
		Hyperlink:      "https://shop.adidas.co.in/#!product/S82260_superstar_bounce",
		ImageHyperlink: "https://content.adidas.co.in/static/Product-S82260/WOMEN_Originals_SHOES_S82260_1.jpg",
		Brand:          "ORIGINALS",
	},
}

var comments = []commentSeed{
	{Username: "irem", ProductID: "AH2430", Text: "I really want this. Damn"},
	{Username: "tobin", ProductID: "AH2430", Text: "Best product!"},
	{Username: "irem", ProductID: "CM6008", Text: "Great value."},
}

// Apply seeds the demo catalog. The target repository must be empty.
func Apply(ctx context.Context, repo repository.Repository) error {
	seededUsers := make(map[string]*domain.User, len(users))
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", u.Username, err)
		}
		user := domain.NewUser(u.Username, string(hash))
		if err := repo.AddUser(ctx, user); err != nil {
			return fmt.Errorf("add user %s: %w", u.Username, err)
		}
		seededUsers[u.Username] = user
	}

	seededBrands := make(map[string]*domain.Brand, len(brandNames))
	for _, name := range brandNames {
		brand := domain.NewBrand(name)
		if err := repo.AddBrand(ctx, brand); err != nil {
			return fmt.Errorf("add brand %s: %w", name, err)
		}
		seededBrands[name] = brand
	}

	seededProducts := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		product := &domain.Product{
			ID:             p.ID,
			Price:          p.Price,
			Name:           p.Name,
			Description:    p.Description,
			Hyperlink:      p.Hyperlink,
			ImageHyperlink: p.ImageHyperlink,
			Discount:       p.Discount,
		}
		// The association must exist before the product is stored so the
		// persistent backend writes the join row alongside the product row.
		if err := domain.MakeBrandAssociation(product, seededBrands[p.Brand]); err != nil {
			return fmt.Errorf("brand product %s: %w", p.ID, err)
		}
		if err := repo.AddProduct(ctx, product); err != nil {
			return fmt.Errorf("add product %s: %w", p.ID, err)
		}
		seededProducts[p.ID] = product
	}

	for _, c := range comments {
		comment := domain.MakeComment(c.Text, seededUsers[c.Username], seededProducts[c.ProductID])
		if err := repo.AddComment(ctx, comment); err != nil {
			return fmt.Errorf("add comment on %s: %w", c.ProductID, err)
		}
	}

	return nil
}
