// Package repotest runs the behavioral contract every repository
// implementation must satisfy. The memory and postgres test suites both feed
// their freshly seeded repositories through Run, which is what keeps the two
// backends observably identical.
package repotest

import (
	"context"
	"errors"
	"testing"
	"time"

	"shoeshop/internal/domain"
	"shoeshop/internal/repository"
	"shoeshop/internal/seed"
)

// Factory returns a fresh, seeded repository for one subtest.
type Factory func(t *testing.T) repository.Repository

// Run executes the contract suite. Every subtest receives its own repository
// so mutations cannot leak between cases.
func Run(t *testing.T, newRepo Factory) {
	t.Run("SeededCounts", func(t *testing.T) { testSeededCounts(t, newRepo(t)) })
	t.Run("GetProduct", func(t *testing.T) { testGetProduct(t, newRepo(t)) })
	t.Run("GetProductsByID", func(t *testing.T) { testGetProductsByID(t, newRepo(t)) })
	t.Run("FirstAndLastProduct", func(t *testing.T) { testFirstAndLast(t, newRepo(t)) })
	t.Run("ProductsByPrice", func(t *testing.T) { testProductsByPrice(t, newRepo(t)) })
	t.Run("NeighborPrices", func(t *testing.T) { testNeighborPrices(t, newRepo(t)) })
	t.Run("ProductIDsForBrand", func(t *testing.T) { testProductIDsForBrand(t, newRepo(t)) })
	t.Run("ProductIDsByName", func(t *testing.T) { testProductIDsByName(t, newRepo(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newRepo(t)) })
	t.Run("Collection", func(t *testing.T) { testCollection(t, newRepo(t)) })
	t.Run("Brands", func(t *testing.T) { testBrands(t, newRepo(t)) })
	t.Run("Comments", func(t *testing.T) { testComments(t, newRepo(t)) })
	t.Run("UnattachedCommentRejected", func(t *testing.T) { testUnattachedComment(t, newRepo(t)) })
}

// Seed populates repo with the demo catalog and fails the test on error. It
// is exported so backend-specific suites can reuse it for their own cases.
func Seed(t *testing.T, repo repository.Repository) {
	t.Helper()
	if err := seed.Apply(context.Background(), repo); err != nil {
		t.Fatalf("seed repository: %v", err)
	}
}

func testSeededCounts(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	n, err := repo.NumberOfProducts(ctx)
	if err != nil {
		t.Fatalf("NumberOfProducts: %v", err)
	}
	if n != 9 {
		t.Errorf("NumberOfProducts = %d, want 9", n)
	}

	brands, err := repo.GetBrands(ctx)
	if err != nil {
		t.Fatalf("GetBrands: %v", err)
	}
	if len(brands) != 3 {
		t.Errorf("GetBrands returned %d brands, want 3", len(brands))
	}

	comments, err := repo.GetComments(ctx)
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(comments) != 3 {
		t.Errorf("GetComments returned %d comments, want 3", len(comments))
	}
}

func testGetProduct(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	p, err := repo.GetProduct(ctx, "AH2430")
	if err != nil {
		t.Fatalf("GetProduct(AH2430): %v", err)
	}
	if p.Price != 2999 {
		t.Errorf("price = %d, want 2999", p.Price)
	}
	if p.Name != "Women's adidas Originals NMD_Racer Primeknit Shoes" {
		t.Errorf("unexpected name %q", p.Name)
	}
	if !p.Branded() || p.BrandName() != "ORIGINALS" {
		t.Errorf("brand = %q, want ORIGINALS", p.BrandName())
	}
	if got := p.NumberOfComments(); got != 2 {
		t.Errorf("NumberOfComments = %d, want 2", got)
	}

	if _, err := repo.GetProduct(ctx, "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetProduct(unknown) error = %v, want ErrNotFound", err)
	}
}

func testGetProductsByID(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	products, err := repo.GetProductsByID(ctx, []string{"AH2430", "no-such-id", "S82260"})
	if err != nil {
		t.Fatalf("GetProductsByID: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("got %d results, want 3", len(products))
	}
	if products[0] == nil || products[0].ID != "AH2430" {
		t.Errorf("products[0] = %v, want AH2430", products[0])
	}
	if products[1] != nil {
		t.Errorf("products[1] = %v, want nil for the miss", products[1])
	}
	if products[2] == nil || products[2].ID != "S82260" {
		t.Errorf("products[2] = %v, want S82260", products[2])
	}
}

func testFirstAndLast(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	first, err := repo.FirstProduct(ctx)
	if err != nil {
		t.Fatalf("FirstProduct: %v", err)
	}
	// Two products share the lowest price; the id tie-break puts 280648
	// ahead of AH2430.
	if first.ID != "280648" {
		t.Errorf("first product = %s, want 280648", first.ID)
	}

	last, err := repo.LastProduct(ctx)
	if err != nil {
		t.Fatalf("LastProduct: %v", err)
	}
	if last.ID != "S82260" {
		t.Errorf("last product = %s, want S82260", last.ID)
	}
}

func testProductsByPrice(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	products, err := repo.ProductsByPrice(ctx, 2999)
	if err != nil {
		t.Fatalf("ProductsByPrice(2999): %v", err)
	}
	if len(products) != 2 || products[0].ID != "280648" || products[1].ID != "AH2430" {
		t.Errorf("ProductsByPrice(2999) = %v, want [280648 AH2430]", productIDs(products))
	}

	none, err := repo.ProductsByPrice(ctx, 1234)
	if err != nil {
		t.Fatalf("ProductsByPrice(1234): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("ProductsByPrice(1234) = %v, want empty", productIDs(none))
	}
}

func testNeighborPrices(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	first, err := repo.GetProduct(ctx, "280648")
	if err != nil {
		t.Fatalf("GetProduct(280648): %v", err)
	}
	prev, err := repo.PriceOfPreviousProduct(ctx, first)
	if err != nil {
		t.Fatalf("PriceOfPreviousProduct(280648): %v", err)
	}
	if prev != nil {
		t.Errorf("previous price of the cheapest product = %d, want nil", *prev)
	}
	next, err := repo.PriceOfNextProduct(ctx, first)
	if err != nil {
		t.Fatalf("PriceOfNextProduct(280648): %v", err)
	}
	if next == nil || *next != 4999 {
		t.Errorf("next price after 2999 = %v, want 4999 (must skip the 2999 tie)", next)
	}

	last, err := repo.GetProduct(ctx, "S82260")
	if err != nil {
		t.Fatalf("GetProduct(S82260): %v", err)
	}
	prev, err = repo.PriceOfPreviousProduct(ctx, last)
	if err != nil {
		t.Fatalf("PriceOfPreviousProduct(S82260): %v", err)
	}
	if prev == nil || *prev != 9999 {
		t.Errorf("previous price of the dearest product = %v, want 9999", prev)
	}
	next, err = repo.PriceOfNextProduct(ctx, last)
	if err != nil {
		t.Fatalf("PriceOfNextProduct(S82260): %v", err)
	}
	if next != nil {
		t.Errorf("next price of the dearest product = %d, want nil", *next)
	}

	stranger := &domain.Product{ID: "no-such-id", Price: 2999}
	if _, err := repo.PriceOfPreviousProduct(ctx, stranger); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("PriceOfPreviousProduct(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := repo.PriceOfNextProduct(ctx, stranger); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("PriceOfNextProduct(unknown) error = %v, want ErrNotFound", err)
	}
}

func testProductIDsForBrand(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	ids, err := repo.ProductIDsForBrand(ctx, "ORIGINALS")
	if err != nil {
		t.Fatalf("ProductIDsForBrand(ORIGINALS): %v", err)
	}
	want := []string{"AH2430", "280648", "G27341", "D98205", "S82260"}
	if !equalStrings(ids, want) {
		t.Errorf("ProductIDsForBrand(ORIGINALS) = %v, want %v", ids, want)
	}

	ids, err = repo.ProductIDsForBrand(ctx, "NO SUCH BRAND")
	if err != nil {
		t.Fatalf("ProductIDsForBrand(unknown): %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ProductIDsForBrand(unknown) = %v, want empty", ids)
	}
}

func testProductIDsByName(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	ids, err := repo.ProductIDsByName(ctx, "superstar")
	if err != nil {
		t.Fatalf("ProductIDsByName(superstar): %v", err)
	}
	// Case-insensitive substring match, results in price order.
	want := []string{"G27341", "S82260"}
	if !equalStrings(ids, want) {
		t.Errorf("ProductIDsByName(superstar) = %v, want %v", ids, want)
	}

	ids, err = repo.ProductIDsByName(ctx, "zzz-no-match")
	if err != nil {
		t.Fatalf("ProductIDsByName(no match): %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("ProductIDsByName(no match) = %v, want empty", ids)
	}
}

func testUsers(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	u, err := repo.GetUser(ctx, "irem")
	if err != nil {
		t.Fatalf("GetUser(irem): %v", err)
	}
	if len(u.Comments()) != 2 {
		t.Errorf("irem has %d comments, want 2", len(u.Comments()))
	}

	if _, err := repo.GetUser(ctx, "nobody"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetUser(unknown) error = %v, want ErrNotFound", err)
	}

	dup := domain.NewUser("irem", "another-hash")
	if err := repo.AddUser(ctx, dup); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("AddUser(duplicate) error = %v, want ErrAlreadyExists", err)
	}
	again, err := repo.GetUser(ctx, "irem")
	if err != nil {
		t.Fatalf("GetUser(irem) after failed duplicate: %v", err)
	}
	if again.PasswordHash == "another-hash" {
		t.Error("failed duplicate insert overwrote the stored user")
	}
}

func testCollection(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	u, err := repo.GetUser(ctx, "tobin")
	if err != nil {
		t.Fatalf("GetUser(tobin): %v", err)
	}
	u.AddToCollection("AH2430")
	u.AddToCollection("S82260")
	u.AddToCollection("AH2430") // idempotent
	if err := repo.UpdateCollection(ctx, u); err != nil {
		t.Fatalf("UpdateCollection: %v", err)
	}

	reloaded, err := repo.GetUser(ctx, "tobin")
	if err != nil {
		t.Fatalf("GetUser(tobin) after update: %v", err)
	}
	if want := []string{"AH2430", "S82260"}; !equalStrings(reloaded.Collection(), want) {
		t.Errorf("collection = %v, want %v", reloaded.Collection(), want)
	}

	reloaded.RemoveFromCollection("AH2430")
	if err := repo.UpdateCollection(ctx, reloaded); err != nil {
		t.Fatalf("UpdateCollection after remove: %v", err)
	}
	final, err := repo.GetUser(ctx, "tobin")
	if err != nil {
		t.Fatalf("GetUser(tobin) after remove: %v", err)
	}
	if want := []string{"S82260"}; !equalStrings(final.Collection(), want) {
		t.Errorf("collection after remove = %v, want %v", final.Collection(), want)
	}

	ghost := domain.NewUser("nobody", "hash")
	if err := repo.UpdateCollection(ctx, ghost); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateCollection(unknown user) error = %v, want ErrNotFound", err)
	}
}

func testBrands(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	brands, err := repo.GetBrands(ctx)
	if err != nil {
		t.Fatalf("GetBrands: %v", err)
	}
	wantNames := []string{"ORIGINALS", "CORE / NEO", "SPORT PERFORMANCE"}
	if len(brands) != len(wantNames) {
		t.Fatalf("got %d brands, want %d", len(brands), len(wantNames))
	}
	for i, b := range brands {
		if b.Name != wantNames[i] {
			t.Errorf("brands[%d] = %s, want %s", i, b.Name, wantNames[i])
		}
	}
	if got := brands[0].NumberOfBrandedProducts(); got != 5 {
		t.Errorf("ORIGINALS has %d products, want 5", got)
	}

	if err := repo.AddBrand(ctx, domain.NewBrand("ORIGINALS")); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("AddBrand(duplicate) error = %v, want ErrAlreadyExists", err)
	}
}

func testComments(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	comments, err := repo.CommentsForProduct(ctx, "AH2430")
	if err != nil {
		t.Fatalf("CommentsForProduct(AH2430): %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("AH2430 has %d comments, want 2", len(comments))
	}
	if comments[0].Username() != "irem" || comments[0].Text != "I really want this. Damn" {
		t.Errorf("first comment = %s %q", comments[0].Username(), comments[0].Text)
	}
	if comments[1].Username() != "tobin" || comments[1].Text != "Best product!" {
		t.Errorf("second comment = %s %q", comments[1].Username(), comments[1].Text)
	}
	for _, c := range comments {
		if c.ProductID() != "AH2430" {
			t.Errorf("comment product = %s, want AH2430", c.ProductID())
		}
		if !c.Attached() {
			t.Error("loaded comment is not attached to both sides")
		}
	}

	if _, err := repo.CommentsForProduct(ctx, "no-such-id"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("CommentsForProduct(unknown) error = %v, want ErrNotFound", err)
	}
}

func testUnattachedComment(t *testing.T, repo repository.Repository) {
	ctx := context.Background()

	u, err := repo.GetUser(ctx, "tobin")
	if err != nil {
		t.Fatalf("GetUser(tobin): %v", err)
	}
	p, err := repo.GetProduct(ctx, "S82260")
	if err != nil {
		t.Fatalf("GetProduct(S82260): %v", err)
	}

	// Built directly instead of via MakeComment, so neither side knows it.
	loose := domain.NewComment(u, p, "sneaky", time.Now().UTC())
	if err := repo.AddComment(ctx, loose); !errors.Is(err, domain.ErrCommentNotAttached) {
		t.Fatalf("AddComment(unattached) error = %v, want ErrCommentNotAttached", err)
	}

	comments, err := repo.GetComments(ctx)
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(comments) != 3 {
		t.Errorf("rejected comment changed the stored count: got %d, want 3", len(comments))
	}
}

func productIDs(products []*domain.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func equalStrings(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
