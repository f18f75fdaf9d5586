// Package sqlite persists seeded products, their categories and images.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/use-agent/brandseed/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
    id          TEXT PRIMARY KEY,
    url         TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    tagline     TEXT NOT NULL,
    description TEXT,
    logo_url    TEXT,
    owner_id    TEXT NOT NULL,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS categories (
    id   TEXT PRIMARY KEY,
    slug TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS product_categories (
    product_id  TEXT NOT NULL REFERENCES products(id),
    category_id TEXT NOT NULL REFERENCES categories(id),
    PRIMARY KEY (product_id, category_id)
);
CREATE TABLE IF NOT EXISTS product_images (
    id         TEXT PRIMARY KEY,
    product_id TEXT NOT NULL REFERENCES products(id),
    url        TEXT NOT NULL,
    position   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_product_images_product ON product_images(product_id);
`

const productColumns = `id, url, name, tagline, COALESCE(description, ''), COALESCE(logo_url, ''), owner_id, created_at, updated_at`

// Repository stores products in SQLite.
type Repository struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and applies the schema.
func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One writer avoids SQLITE_BUSY between the API and refresh sweeps.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// FindByURL returns the product stored for url, or nil when there is none.
func (r *Repository) FindByURL(ctx context.Context, url string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE url = ?`, url,
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.withRelations(ctx, p)
}

// GetProduct returns the product with the given id.
func (r *Repository) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id,
	)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NewExtractError(models.ErrCodeNotFound, "product not found", err)
	}
	if err != nil {
		return nil, err
	}
	return r.withRelations(ctx, p)
}

// ListProducts returns every product, oldest first. Relations are not loaded.
func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

// CreateProduct inserts a product for res and links it to categoryIDs.
// A second product with the same URL fails with ErrCodeDuplicate.
func (r *Repository) CreateProduct(ctx context.Context, res *models.ExtractionResult, ownerID string, categoryIDs []string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (id, url, name, tagline, description, logo_url, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.SourceURL, res.Name, res.Tagline, nullable(res.Description), nullable(res.LogoURL), ownerID, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", models.NewExtractError(models.ErrCodeDuplicate, "a product with this URL already exists", err)
		}
		return "", fmt.Errorf("sqlite: insert product: %w", err)
	}

	for _, cid := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO product_categories (product_id, category_id) VALUES (?, ?)`,
			id, cid,
		); err != nil {
			return "", fmt.Errorf("sqlite: link category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// AttachImages appends image records to a product, keeping their order.
func (r *Repository) AttachImages(ctx context.Context, productID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM product_images WHERE product_id = ?`, productID,
	).Scan(&next); err != nil {
		return err
	}
	for i, u := range urls {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (id, product_id, url, position) VALUES (?, ?, ?, ?)`,
			uuid.NewString(), productID, u, next+i,
		); err != nil {
			return fmt.Errorf("sqlite: insert image: %w", err)
		}
	}
	return tx.Commit()
}

// UpdateBrand overwrites the extracted fields of an existing product.
func (r *Repository) UpdateBrand(ctx context.Context, productID string, res *models.ExtractionResult) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET name = ?, tagline = ?, description = ?, logo_url = ?, updated_at = ? WHERE id = ?`,
		res.Name, res.Tagline, nullable(res.Description), nullable(res.LogoURL), time.Now().UTC(), productID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewExtractError(models.ErrCodeNotFound, "product not found", nil)
	}
	return nil
}

// ResolveCategories maps slugs to category ids, creating unknown ones.
func (r *Repository) ResolveCategories(ctx context.Context, slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		slug = strings.ToLower(strings.TrimSpace(slug))
		if slug == "" {
			continue
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO categories (id, slug, name) VALUES (?, ?, ?)`,
			uuid.NewString(), slug, titleFromSlug(slug),
		); err != nil {
			return nil, fmt.Errorf("sqlite: upsert category %q: %w", slug, err)
		}
		var id string
		if err := r.db.QueryRowContext(ctx,
			`SELECT id FROM categories WHERE slug = ?`, slug,
		).Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *Repository) withRelations(ctx context.Context, p *models.Product) (*models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id FROM product_categories WHERE product_id = ? ORDER BY category_id`, p.ID,
	)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		p.CategoryIDs = append(p.CategoryIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.db.QueryContext(ctx,
		`SELECT url FROM product_images WHERE product_id = ? ORDER BY position`, p.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		p.ImageURLs = append(p.ImageURLs, u)
	}
	return p, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.URL, &p.Name, &p.Tagline, &p.Description, &p.LogoURL, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
