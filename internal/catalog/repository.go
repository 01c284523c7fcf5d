package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("not found")

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// ListFilter narrows and orders a product listing. Zero value lists everything
// sorted by name.
type ListFilter struct {
	CategoryID string
	Sort       string // name | price | category
	Limit      int
	Offset     int
}

type Repository interface {
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, f ListFilter) ([]Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, id string) error
	SetStock(ctx context.Context, productID string, stock int) error

	GetCategory(ctx context.Context, id string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
	CreateCategory(ctx context.Context, c *Category) error
	UpdateCategory(ctx context.Context, c *Category) error
	DeleteCategory(ctx context.Context, id string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, description, price, stock, featured, image_url, category_id, created_at, updated_at`

func (r *PostgresRepository) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("select product: %w", err)
	}
	return p, nil
}

// sortClauses whitelists the user-facing sort keys. Anything else falls back
// to name ordering.
var sortClauses = map[string]string{
	"name":     "p.name ASC",
	"price":    "p.price ASC",
	"category": "c.name ASC NULLS LAST, p.name ASC",
}

func (r *PostgresRepository) ListProducts(ctx context.Context, f ListFilter) ([]Product, error) {
	orderBy, ok := sortClauses[f.Sort]
	if !ok {
		orderBy = sortClauses["name"]
	}

	query := `SELECT p.id, p.name, p.description, p.price, p.stock, p.featured, p.image_url, p.category_id, p.created_at, p.updated_at
		FROM products p LEFT JOIN categories c ON c.id = p.category_id`

	args := []any{}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		query += ` WHERE p.category_id = $1`
	}
	query += ` ORDER BY ` + orderBy

	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, len(args)-1, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return products, nil
}

func (r *PostgresRepository) CreateProduct(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, stock, featured, image_url, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Featured, p.ImageURL, p.CategoryID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateProduct(ctx context.Context, p *Product) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, stock=$5, featured=$6, image_url=$7, category_id=$8, updated_at=now()
		WHERE id=$1`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Featured, p.ImageURL, p.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetStock(ctx context.Context, productID string, stock int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET stock=$2, updated_at=now() WHERE id=$1`, productID, stock)
	if err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) GetCategory(ctx context.Context, id string) (Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `
		SELECT c.id, c.name, c.description, c.popularity, COUNT(p.id), c.created_at, c.updated_at
		FROM categories c LEFT JOIN products p ON p.category_id = c.id
		WHERE c.id=$1
		GROUP BY c.id`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.Popularity, &c.ProductCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, fmt.Errorf("select category: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.description, c.popularity, COUNT(p.id), c.created_at, c.updated_at
		FROM categories c LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.popularity DESC, c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Popularity, &c.ProductCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return categories, nil
}

func (r *PostgresRepository) CreateCategory(ctx context.Context, c *Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, description, popularity)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Description, c.Popularity,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateCategory(ctx context.Context, c *Category) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories SET name=$2, description=$3, popularity=$4, updated_at=now() WHERE id=$1`,
		c.ID, c.Name, c.Description, c.Popularity,
	)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Featured,
		&p.ImageURL, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
}
