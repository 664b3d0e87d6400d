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

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo implementación del puerto RoleRepository; los permisos se guardan en una columna TEXT[].
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de persistencia para roles.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

const roleColumns = `id, name, description, permissions, created_at, updated_at, deleted_at`

func scanRole(row pgx.Row) (*entity.Role, error) {
	var ro entity.Role
	err := row.Scan(&ro.ID, &ro.Name, &ro.Description, &ro.Permissions, &ro.CreatedAt, &ro.UpdatedAt, &ro.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &ro, nil
}

func (r *RoleRepo) Create(ctx context.Context, ro *entity.Role) error {
	query := `
		INSERT INTO roles (id, name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, ro.ID, ro.Name, ro.Description, ro.Permissions, ro.CreatedAt, ro.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert role", err)
	}
	return nil
}

func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
}

func (r *RoleRepo) GetActiveByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1 AND deleted_at IS NULL`, name)
}

func (r *RoleRepo) getOne(ctx context.Context, query string, arg any) (*entity.Role, error) {
	ro, err := scanRole(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return ro, nil
}

func (r *RoleRepo) Update(ctx context.Context, ro *entity.Role) error {
	query := `UPDATE roles SET name = $2, description = $3, permissions = $4, updated_at = $5 WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, ro.ID, ro.Name, ro.Description, ro.Permissions, ro.UpdatedAt); err != nil {
		return mapWriteErr("update role", err)
	}
	return nil
}

func (r *RoleRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Role, error) {
	query := `SELECT ` + roleColumns + ` FROM roles WHERE ` + trashClause(f.Deleted) + `
		ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Role
	for rows.Next() {
		ro, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		list = append(list, ro)
	}
	return list, rows.Err()
}

func (r *RoleRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.q, "roles", id, at)
}

func (r *RoleRepo) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.q, "roles", id)
}
