package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamerstore/backend/internal/domain"
)

// ProductStore implements domain.ProductStore using PostgreSQL.
type ProductStore struct {
	db DBTX
}

const productColumns = `id, name, description, price, stock, category_id, image_url, active, created_at, updated_at`

func (s *ProductStore) Create(ctx context.Context, product *domain.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	var categoryID *uuid.UUID
	if product.CategoryID.Valid {
		categoryID = &product.CategoryID.UUID
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO products (id, name, description, price, stock, category_id, image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, product.ID, product.Name, product.Description, product.Price, product.Stock,
		categoryID, product.ImageURL, product.Active,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		return domain.Internal(err, "product.create", "failed to create product")
	}
	return nil
}

func (s *ProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

// GetByIDForUpdate locks the product row for the rest of the transaction.
// Two concurrent checkouts of the same product serialize here, so neither can
// pass the stock check against a stale read.
func (s *ProductStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := s.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	return scanProduct(row)
}

func (s *ProductStore) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var (
		conds []string
		args  []any
	)

	if filter.Name != "" {
		args = append(args, "%"+strings.ToLower(filter.Name)+"%")
		conds = append(conds, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.InStock != nil && *filter.InStock {
		conds = append(conds, "stock >= 1")
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		conds = append(conds, fmt.Sprintf("active = $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	switch filter.Sort {
	case domain.SortPriceAsc:
		query += " ORDER BY price ASC"
	case domain.SortPriceDesc:
		query += " ORDER BY price DESC"
	case domain.SortAlphaAsc:
		query += " ORDER BY name ASC"
	case domain.SortAlphaDesc:
		query += " ORDER BY name DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (s *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	var categoryID *uuid.UUID
	if product.CategoryID.Valid {
		categoryID = &product.CategoryID.UUID
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price = $4, stock = $5, category_id = $6,
		    image_url = $7, active = $8, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Name, product.Description, product.Price, product.Stock,
		categoryID, product.ImageURL, product.Active)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryNotFound
		}
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return domain.Internal(err, "product.update", "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustStock applies a signed delta. The stock >= 0 check constraint backs
// the invariant even if a caller skips the pre-validation.
func (s *ProductStore) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1
	`, id, delta)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return domain.Internal(err, "product.adjust_stock", "failed to adjust stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		// cart_items and order_items reference products with ON DELETE RESTRICT.
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return domain.Internal(err, "product.delete", "failed to delete product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		catID *uuid.UUID
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &catID,
		&p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to get product")
	}
	if catID != nil {
		p.CategoryID = uuid.NullUUID{UUID: *catID, Valid: true}
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var (
			p     domain.Product
			catID *uuid.UUID
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &catID,
			&p.ImageURL, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "product.scan", "failed to scan product")
		}
		if catID != nil {
			p.CategoryID = uuid.NullUUID{UUID: *catID, Valid: true}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "product.scan", "failed to read products")
	}
	return products, nil
}
