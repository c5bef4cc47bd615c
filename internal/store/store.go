package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"mobilestore/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// ErrNotAvailable is returned by the conditional stock operations when the
// guard fails: not enough stock, not enough sold, or no such product.
var ErrNotAvailable = errors.New("stock not available")

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// ReserveStock atomically decrements count_in_stock and increments sold,
// guarded by count_in_stock >= amount. The guard and the mutation are one
// statement, so concurrent callers racing for the same product can never
// drive the stock negative. A missing product behaves like insufficient
// stock and maps to ErrNotAvailable.
func (s *Store) ReserveStock(ctx context.Context, productID string, amount int) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, `
		UPDATE products
		SET count_in_stock = count_in_stock - $2, sold = sold + $2, updated_at = NOW()
		WHERE id = $1 AND count_in_stock >= $2
		RETURNING *`, productID, amount)
	if err == sql.ErrNoRows {
		return nil, ErrNotAvailable
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReleaseStock is the inverse of ReserveStock, guarded by sold >= amount so
// sold can never go negative.
func (s *Store) ReleaseStock(ctx context.Context, productID string, amount int) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, `
		UPDATE products
		SET count_in_stock = count_in_stock + $2, sold = sold - $2, updated_at = NOW()
		WHERE id = $1 AND sold >= $2
		RETURNING *`, productID, amount)
	if err == sql.ErrNoRows {
		return nil, ErrNotAvailable
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new catalog entry.
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name, image, type, price, count_in_stock, sold, rating, description, discount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Image, p.Type, p.Price, p.CountInStock, p.Sold,
		p.Rating, p.Description, p.Discount,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByName retrieves a product by its unique name.
func (s *Store) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product, "SELECT * FROM products WHERE name = $1", name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ProductQuery carries pagination, sorting and filtering for catalog listings.
type ProductQuery struct {
	Page   int
	Limit  int
	Sort   string // "asc" or "desc"
	Field  string
	Filter string
}

// sortableProductFields whitelists the columns a listing may sort or filter
// by. Anything else is ignored rather than interpolated into SQL.
var sortableProductFields = map[string]string{
	"name":         "name",
	"price":        "price",
	"type":         "type",
	"rating":       "rating",
	"sold":         "sold",
	"countInStock": "count_in_stock",
}

// ListProducts retrieves a page of products. Filter matches the chosen field
// case-insensitively; sort orders by it.
func (s *Store) ListProducts(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	var (
		clauses []string
		args    []interface{}
	)
	query := "SELECT * FROM products"

	col, knownField := sortableProductFields[q.Field]
	if q.Filter != "" && knownField {
		args = append(args, "%"+q.Filter+"%")
		clauses = append(clauses, fmt.Sprintf("%s::text ILIKE $%d", col, len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	if q.Sort != "" && knownField {
		dir := "ASC"
		if strings.EqualFold(q.Sort, "desc") {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", col, dir)
	} else {
		query += " ORDER BY created_at DESC"
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if q.Page > 1 {
			args = append(args, (q.Page-1)*q.Limit)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	var products []models.Product
	err := s.db.SelectContext(ctx, &products, query, args...)
	return products, err
}

// CountProducts returns the total number of catalog entries.
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM products")
	return n, err
}

// UpdateProduct applies a full update to a product row.
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var updated models.Product
	err := s.db.GetContext(ctx, &updated, `
		UPDATE products
		SET name = $2, image = $3, type = $4, price = $5, count_in_stock = $6,
		    rating = $7, description = $8, discount = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING *`,
		p.ID, p.Name, p.Image, p.Type, p.Price, p.CountInStock,
		p.Rating, p.Description, p.Discount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes a product, returning false when it did not exist.
func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// DeleteProducts removes multiple products by id, returning how many went.
func (s *Store) DeleteProducts(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In("DELETE FROM products WHERE id IN (?)", ids)
	if err != nil {
		return 0, err
	}
	query = s.db.Rebind(query)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetProductTypes retrieves the distinct product types.
func (s *Store) GetProductTypes(ctx context.Context) ([]string, error) {
	var types []string
	err := s.db.SelectContext(ctx, &types, "SELECT DISTINCT type FROM products ORDER BY type")
	return types, err
}

// GetProductsByType retrieves all products of one type.
func (s *Store) GetProductsByType(ctx context.Context, prodType string) ([]models.Product, error) {
	var products []models.Product
	err := s.db.SelectContext(ctx, &products,
		"SELECT * FROM products WHERE type = $1 ORDER BY created_at DESC", prodType)
	return products, err
}
