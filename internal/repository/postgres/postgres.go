// Package postgres implements the repository contract over Postgres via pgx.
// Each logical operation runs in a single unit of work; ordering queries use
// the same total order (price ascending, id tie-break) as the memory backend.
package postgres

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shoeshop/internal/domain"
	"shoeshop/internal/repository"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// New returns a Repository backed by Postgres.
func New(pool *pgxpool.Pool, logger *log.Logger) repository.Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) AddUser(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users (username, password_hash)
VALUES ($1, $2)
`
	if _, err := r.pool.Exec(ctx, q, u.Username, u.PasswordHash); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Printf("postgres repo: add user %s: already exists", u.Username)
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetUser(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT username, password_hash
FROM users
WHERE username = $1
`
	var name, hash string
	if err := r.pool.QueryRow(ctx, q, username).Scan(&name, &hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	commentIDs, err := r.stringColumn(ctx, `
SELECT id::text FROM comments WHERE username = $1 ORDER BY position
`, username)
	if err != nil {
		return nil, err
	}
	collection, err := r.stringColumn(ctx, `
SELECT product_id FROM collection_items WHERE username = $1 ORDER BY position
`, username)
	if err != nil {
		return nil, err
	}

	u := domain.NewUser(name, hash)
	domain.RestoreUser(u, commentIDs, collection)
	return u, nil
}

func (r *postgresRepo) UpdateCollection(ctx context.Context, u *domain.User) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, u.Username).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM collection_items WHERE username = $1`, u.Username); err != nil {
		return err
	}
	for _, productID := range u.Collection() {
		if _, err := tx.Exec(ctx, `
INSERT INTO collection_items (username, product_id) VALUES ($1, $2)
`, u.Username, productID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) AddProduct(ctx context.Context, p *domain.Product) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO products (id, price_cents, name, description, hyperlink, image_hyperlink, discount)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	if _, err := tx.Exec(ctx, q,
		p.ID, p.Price, p.Name, p.Description, p.Hyperlink, p.ImageHyperlink, p.Discount,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Printf("postgres repo: add product %s: already exists", p.ID)
			return domain.ErrAlreadyExists
		}
		return err
	}

	if p.Branded() {
		if _, err := tx.Exec(ctx, `
INSERT INTO product_brands (product_id, brand_name) VALUES ($1, $2)
`, p.ID, p.BrandName()); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return r.getProduct(ctx, r.pool, id)
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *postgresRepo) getProduct(ctx context.Context, q querier, id string) (*domain.Product, error) {
	const productQuery = `
SELECT id, price_cents, name, description, hyperlink, image_hyperlink, discount
FROM products
WHERE id = $1
`
	var p domain.Product
	err := q.QueryRow(ctx, productQuery, id).Scan(
		&p.ID, &p.Price, &p.Name, &p.Description, &p.Hyperlink, &p.ImageHyperlink, &p.Discount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	commentIDs, err := queryStrings(ctx, q, `
SELECT id::text FROM comments WHERE product_id = $1 ORDER BY position
`, id)
	if err != nil {
		return nil, err
	}

	var brandName string
	err = q.QueryRow(ctx, `
SELECT brand_name FROM product_brands WHERE product_id = $1
`, id).Scan(&brandName)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	domain.RestoreProduct(&p, commentIDs, brandName)
	return &p, nil
}

func (r *postgresRepo) GetProductsByID(ctx context.Context, ids []string) ([]*domain.Product, error) {
	result := make([]*domain.Product, len(ids))
	for i, id := range ids {
		p, err := r.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // nil entry, position preserved
			}
			return nil, err
		}
		result[i] = p
	}
	return result, nil
}

func (r *postgresRepo) NumberOfProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) FirstProduct(ctx context.Context) (*domain.Product, error) {
	return r.productAtExtreme(ctx, `
SELECT id FROM products ORDER BY price_cents ASC, id ASC LIMIT 1
`)
}

func (r *postgresRepo) LastProduct(ctx context.Context) (*domain.Product, error) {
	return r.productAtExtreme(ctx, `
SELECT id FROM products ORDER BY price_cents DESC, id DESC LIMIT 1
`)
}

func (r *postgresRepo) productAtExtreme(ctx context.Context, q string) (*domain.Product, error) {
	var id string
	if err := r.pool.QueryRow(ctx, q).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return r.GetProduct(ctx, id)
}

func (r *postgresRepo) ProductsByPrice(ctx context.Context, price int64) ([]*domain.Product, error) {
	ids, err := r.stringColumn(ctx, `
SELECT id FROM products WHERE price_cents = $1 ORDER BY id
`, price)
	if err != nil {
		return nil, err
	}
	var result []*domain.Product
	for _, id := range ids {
		p, err := r.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *postgresRepo) PriceOfPreviousProduct(ctx context.Context, p *domain.Product) (*int64, error) {
	return r.neighborPrice(ctx, p, `
SELECT price_cents FROM products WHERE price_cents < $1 ORDER BY price_cents DESC LIMIT 1
`)
}

func (r *postgresRepo) PriceOfNextProduct(ctx context.Context, p *domain.Product) (*int64, error) {
	return r.neighborPrice(ctx, p, `
SELECT price_cents FROM products WHERE price_cents > $1 ORDER BY price_cents ASC LIMIT 1
`)
}

func (r *postgresRepo) neighborPrice(ctx context.Context, p *domain.Product, q string) (*int64, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	var price int64
	if err := r.pool.QueryRow(ctx, q, p.Price).Scan(&price); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // boundary
		}
		return nil, err
	}
	return &price, nil
}

func (r *postgresRepo) ProductIDsForBrand(ctx context.Context, brandName string) ([]string, error) {
	return r.stringColumn(ctx, `
SELECT product_id FROM product_brands WHERE brand_name = $1 ORDER BY position
`, brandName)
}

func (r *postgresRepo) ProductIDsByName(ctx context.Context, fragment string) ([]string, error) {
	return r.stringColumn(ctx, `
SELECT id FROM products
WHERE strpos(lower(name), lower($1)) > 0
ORDER BY price_cents, id
`, fragment)
}

func (r *postgresRepo) AddBrand(ctx context.Context, b *domain.Brand) error {
	if _, err := r.pool.Exec(ctx, `INSERT INTO brands (name) VALUES ($1)`, b.Name); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *postgresRepo) GetBrands(ctx context.Context) ([]*domain.Brand, error) {
	names, err := r.stringColumn(ctx, `SELECT name FROM brands ORDER BY position`)
	if err != nil {
		return nil, err
	}

	brands := make([]*domain.Brand, 0, len(names))
	for _, name := range names {
		productIDs, err := r.ProductIDsForBrand(ctx, name)
		if err != nil {
			return nil, err
		}
		b := domain.NewBrand(name)
		domain.RestoreBrand(b, productIDs)
		brands = append(brands, b)
	}
	return brands, nil
}

func (r *postgresRepo) AddComment(ctx context.Context, c *domain.Comment) error {
	// Cross-reference validation happens before any write, inside the same
	// unit of work as the insert.
	if !c.Attached() {
		r.logger.Printf("postgres repo: add comment: not attached")
		return domain.ErrCommentNotAttached
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, c.Username()).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, c.ProductID()).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO comments (id, username, product_id, comment_text, created_at)
VALUES ($1, $2, $3, $4, $5)
`, c.ID, c.Username(), c.ProductID(), c.Text, c.Timestamp); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) GetComments(ctx context.Context) ([]*domain.Comment, error) {
	return r.loadComments(ctx, `
SELECT id::text, username, product_id, comment_text, created_at
FROM comments
ORDER BY position
`)
}

func (r *postgresRepo) CommentsForProduct(ctx context.Context, productID string) ([]*domain.Comment, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return r.loadComments(ctx, `
SELECT id::text, username, product_id, comment_text, created_at
FROM comments
WHERE product_id = $1
ORDER BY position
`, productID)
}

type commentRow struct {
	id        string
	username  string
	productID string
	text      string
	createdAt time.Time
}

// loadComments scans comment rows and rebuilds their back-references,
// reusing one user/product instance per identity within the batch.
func (r *postgresRepo) loadComments(ctx context.Context, q string, args ...any) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scanned []commentRow
	for rows.Next() {
		var row commentRow
		if err := rows.Scan(&row.id, &row.username, &row.productID, &row.text, &row.createdAt); err != nil {
			return nil, err
		}
		scanned = append(scanned, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	users := make(map[string]*domain.User)
	products := make(map[string]*domain.Product)
	result := make([]*domain.Comment, 0, len(scanned))
	for _, row := range scanned {
		u, ok := users[row.username]
		if !ok {
			if u, err = r.GetUser(ctx, row.username); err != nil {
				return nil, err
			}
			users[row.username] = u
		}
		p, ok := products[row.productID]
		if !ok {
			if p, err = r.GetProduct(ctx, row.productID); err != nil {
				return nil, err
			}
			products[row.productID] = p
		}
		result = append(result, domain.RestoreComment(row.id, row.text, row.createdAt, u, p))
	}
	return result, nil
}

func (r *postgresRepo) stringColumn(ctx context.Context, q string, args ...any) ([]string, error) {
	return queryStrings(ctx, r.pool, q, args...)
}

func queryStrings(ctx context.Context, q querier, sql string, args ...any) ([]string, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
