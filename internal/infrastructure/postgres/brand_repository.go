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

var _ repository.BrandRepository = (*BrandRepo)(nil)

// BrandRepo implementación del puerto BrandRepository sobre PostgreSQL (usable con pool o tx).
type BrandRepo struct {
	q Querier
}

// NewBrandRepository construye el adaptador de persistencia para marcas.
func NewBrandRepository(q Querier) *BrandRepo {
	return &BrandRepo{q: q}
}

const brandColumns = `id, name, description, created_at, updated_at, deleted_at`

func scanBrand(row pgx.Row) (*entity.Brand, error) {
	var b entity.Brand
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BrandRepo) Create(ctx context.Context, b *entity.Brand) error {
	query := `INSERT INTO brands (id, name, description, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Description, b.CreatedAt, b.UpdatedAt); err != nil {
		return mapWriteErr("insert brand", err)
	}
	return nil
}

func (r *BrandRepo) GetByID(ctx context.Context, id string) (*entity.Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand: %w", err)
	}
	return b, nil
}

func (r *BrandRepo) GetActiveByName(ctx context.Context, name string) (*entity.Brand, error) {
	b, err := scanBrand(r.q.QueryRow(ctx, `SELECT `+brandColumns+` FROM brands WHERE name = $1 AND deleted_at IS NULL`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get brand by name: %w", err)
	}
	return b, nil
}

func (r *BrandRepo) Update(ctx context.Context, b *entity.Brand) error {
	query := `UPDATE brands SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Name, b.Description, b.UpdatedAt); err != nil {
		return mapWriteErr("update brand", err)
	}
	return nil
}

func (r *BrandRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands WHERE ` + trashClause(f.Deleted) + `
		ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()
	var list []*entity.Brand
	for rows.Next() {
		b, err := scanBrand(rows)
		if err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BrandRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.q, "brands", id, at)
}

func (r *BrandRepo) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.q, "brands", id)
}
