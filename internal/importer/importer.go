// Package importer loads a catalog from a CSV export into a repository. It
// goes through the repository contract, so the same file imports identically
// into the memory and postgres backends.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shoeshop/internal/domain"
	"shoeshop/internal/repository"
)

// CSVImporter reads product rows and inserts products plus their brands.
//
// Expected columns: id, price, name, description, hyperlink, image_hyperlink,
// discount, brand. Order does not matter; unknown columns are ignored.
type CSVImporter struct {
	reader *csv.Reader
	repo   repository.Repository
}

func NewCSVImporter(r io.Reader, repo repository.Repository) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		repo:   repo,
	}
}

type csvRow struct {
	ID             string
	Price          int64
	Name           string
	Description    string
	Hyperlink      string
	ImageHyperlink string
	Discount       int64
	Brand          string
}

// Run parses the file and stores every product. Brands are created on first
// sighting; a brand that already exists in the repository is reused.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	brands := make(map[string]*domain.Brand)
	imported := 0

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		product := &domain.Product{
			ID:             row.ID,
			Price:          row.Price,
			Name:           row.Name,
			Description:    row.Description,
			Hyperlink:      row.Hyperlink,
			ImageHyperlink: row.ImageHyperlink,
			Discount:       row.Discount,
		}

		if row.Brand != "" {
			brand, err := i.ensureBrand(ctx, brands, row.Brand)
			if err != nil {
				return imported, err
			}
			if err := domain.MakeBrandAssociation(product, brand); err != nil {
				return imported, fmt.Errorf("brand product %q: %w", row.ID, err)
			}
		}

		if err := i.repo.AddProduct(ctx, product); err != nil {
			return imported, fmt.Errorf("add product %q: %w", row.ID, err)
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) ensureBrand(ctx context.Context, cache map[string]*domain.Brand, name string) (*domain.Brand, error) {
	if b, ok := cache[name]; ok {
		return b, nil
	}
	b := domain.NewBrand(name)
	err := i.repo.AddBrand(ctx, b)
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Reuse the stored instance so associations land on it.
		stored, lookupErr := i.repo.GetBrands(ctx)
		if lookupErr != nil {
			return nil, fmt.Errorf("load brands: %w", lookupErr)
		}
		for _, existing := range stored {
			if existing.Name == name {
				b = existing
				break
			}
		}
	} else if err != nil {
		return nil, fmt.Errorf("add brand %q: %w", name, err)
	}
	cache[name] = b
	return b, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")

	if id == "" && name == "" {
		return nil, nil // blank line
	}
	if id == "" || name == "" {
		return nil, fmt.Errorf("invalid row: id and name are required (id=%q name=%q)", id, name)
	}

	price, err := strconv.ParseInt(pick(record, index, "price"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price for %q: %w", id, err)
	}

	var discount int64
	if raw := pick(record, index, "discount"); raw != "" {
		if discount, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid discount for %q: %w", id, err)
		}
	}

	return &csvRow{
		ID:             id,
		Price:          price,
		Name:           name,
		Description:    pick(record, index, "description"),
		Hyperlink:      pick(record, index, "hyperlink"),
		ImageHyperlink: pick(record, index, "image_hyperlink"),
		Discount:       discount,
		Brand:          pick(record, index, "brand"),
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
