package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joao-fontenele/orderdesk/internal/domain"
)

// ProductRepository owns the products table. Stock only ever changes
// through DecrementStock, and only inside a caller-owned transaction.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, price, stock, category`

func (r *ProductRepository) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
}

// GetProductTx reads a product inside the caller's transaction so the
// surrounding unit of work sees a consistent row.
func (r *ProductRepository) GetProductTx(ctx context.Context, tx *sql.Tx, id int64) (*domain.Product, error) {
	return scanProduct(tx.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id))
}

func scanProduct(row *sql.Row) (*domain.Product, error) {
	product := &domain.Product{}

	err := row.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Category)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	return product, nil
}

// DecrementStock subtracts quantity from a product's stock inside the
// caller's transaction. The predicate re-checks stock at write time, so two
// concurrent placements serialize on the row lock and the loser sees
// ErrInsufficientStock instead of driving stock negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, tx *sql.Tx, id int64, quantity int) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE products
		SET stock = stock - $2
		WHERE id = $1 AND stock >= $2
	`, id, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrInsufficientStock
	}

	return nil
}

// Search returns products whose name contains the query, matching the
// case-insensitive behavior of the catalog search this replaces.
func (r *ProductRepository) Search(ctx context.Context, query string) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY name
	`, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Category); err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
