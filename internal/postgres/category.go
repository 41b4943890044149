package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gamerstore/backend/internal/domain"
)

// CategoryStore implements domain.CategoryStore using PostgreSQL.
type CategoryStore struct {
	db DBTX
}

func (s *CategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	_, err := s.db.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`,
		category.ID, category.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("category.create", "category name already exists")
		}
		return domain.Internal(err, "category.create", "failed to create category")
	}
	return nil
}

func (s *CategoryStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category
	err := s.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, domain.Internal(err, "category.get", "failed to get category")
	}
	return &c, nil
}

func (s *CategoryStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, domain.Internal(err, "category.list", "failed to list categories")
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, domain.Internal(err, "category.list", "failed to scan category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "category.list", "failed to read categories")
	}
	return categories, nil
}

func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrCategoryInUse
		}
		return domain.Internal(err, "category.delete", "failed to delete category")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
