package importer

import (
	"context"
	"strings"
	"testing"

	"shoeshop/internal/repository/memory"
)

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,price,name,description,hyperlink,image_hyperlink,discount,brand
P1,2999,Runner One,First runner,https://example.com/p1,https://example.com/p1.jpg,,STREET
P2,4999,Runner Two,Second runner,https://example.com/p2,https://example.com/p2.jpg,2,STREET
P3,1999,Court Classic,Low-top court shoe,https://example.com/p3,https://example.com/p3.jpg,,COURT
`

	ctx := context.Background()
	repo := memory.New(nil)
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(ctx)
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	p, err := repo.GetProduct(ctx, "P2")
	if err != nil {
		t.Fatalf("GetProduct(P2): %v", err)
	}
	if p.Price != 4999 || p.Discount != 2 || p.Name != "Runner Two" {
		t.Fatalf("unexpected product data: %+v", p)
	}
	if !p.Branded() || p.BrandName() != "STREET" {
		t.Fatalf("P2 brand = %q, want STREET", p.BrandName())
	}

	// STREET appears twice but must be stored once, with both products.
	brands, err := repo.GetBrands(ctx)
	if err != nil {
		t.Fatalf("GetBrands: %v", err)
	}
	if len(brands) != 2 {
		t.Fatalf("expected 2 brands, got %d", len(brands))
	}
	ids, err := repo.ProductIDsForBrand(ctx, "STREET")
	if err != nil {
		t.Fatalf("ProductIDsForBrand: %v", err)
	}
	if len(ids) != 2 || ids[0] != "P1" || ids[1] != "P2" {
		t.Fatalf("STREET products = %v, want [P1 P2]", ids)
	}

	// The total order holds for imported products too.
	first, err := repo.FirstProduct(ctx)
	if err != nil || first.ID != "P3" {
		t.Fatalf("FirstProduct = %v, %v, want P3", first, err)
	}
}

func TestCSVImporter_ColumnOrderIndependent(t *testing.T) {
	csvData := `name,brand,id,price
Reordered Shoe,STREET,R1,1500
`
	ctx := context.Background()
	repo := memory.New(nil)

	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(ctx)
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product, got %d", count)
	}
	p, err := repo.GetProduct(ctx, "R1")
	if err != nil || p.Price != 1500 {
		t.Fatalf("GetProduct(R1) = %v, %v", p, err)
	}
}

func TestCSVImporter_BadRows(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name string
		data string
	}{
		{"MissingID", "id,price,name\n,100,No ID\n"},
		{"BadPrice", "id,price,name\nP1,cheap,Bad Price\n"},
		{"BadDiscount", "id,price,name,discount\nP1,100,Bad Discount,lots\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.New(nil)
			if _, err := NewCSVImporter(strings.NewReader(tc.data), repo).Run(ctx); err == nil {
				t.Fatal("expected an error, got none")
			}
		})
	}
}

func TestCSVImporter_DuplicateProduct(t *testing.T) {
	csvData := `id,price,name
D1,100,First
D1,200,Duplicate
`
	ctx := context.Background()
	repo := memory.New(nil)

	count, err := NewCSVImporter(strings.NewReader(csvData), repo).Run(ctx)
	if err == nil {
		t.Fatal("expected duplicate id to fail the run")
	}
	if count != 1 {
		t.Fatalf("expected 1 product imported before the failure, got %d", count)
	}
}
