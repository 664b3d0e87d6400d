package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL (usable con pool o tx).
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

const categoryColumns = `id, name, description, created_at, updated_at, deleted_at`

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var b entity.Category
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *CategoryRepo) Create(ctx context.Context, b *entity.Category) error {
	query := `INSERT INTO categories (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Description, b.CreatedAt, b.UpdatedAt); err != nil {
		return mapWriteErr("insert category", err)
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	b, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return b, nil
}

func (r *CategoryRepo) GetActiveByName(ctx context.Context, name string) (*entity.Category, error) {
	b, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1 AND deleted_at IS NULL`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return b, nil
}

func (r *CategoryRepo) Update(ctx context.Context, b *entity.Category) error {
	query := `UPDATE categories SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Description, b.UpdatedAt); err != nil {
		return mapWriteErr("update category", err)
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE ` + trashClause(f.Deleted) + `
		ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		b, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.q, "categories", id, at)
}

func (r *CategoryRepo) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.q, "categories", id)
}
