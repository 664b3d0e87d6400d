package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica 23503 (referencia a un registro inexistente).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

// mapWriteErr traduce errores de escritura a errores de dominio.
func mapWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return domain.ErrDuplicate
	case isForeignKeyViolation(err):
		return fmt.Errorf("%w: %s referencia un registro inexistente", domain.ErrInvalidInput, op)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// trashClause filtra activos o, con deleted, solo la papelera.
func trashClause(deleted bool) string {
	if deleted {
		return "deleted_at IS NOT NULL"
	}
	return "deleted_at IS NULL"
}

// softDelete marca deleted_at; ErrNotFound si no existe o ya estaba borrado.
func softDelete(ctx context.Context, q Querier, table, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, table)
	tag, err := q.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("soft delete %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// restoreRow limpia deleted_at; los índices únicos parciales devuelven ErrDuplicate si la clave fue tomada.
func restoreRow(ctx context.Context, q Querier, table, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = NULL, updated_at = now() WHERE id = $1 AND deleted_at IS NOT NULL`, table)
	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("restore %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

// dateRangeClause agrega condiciones de fecha sobre col; los placeholders siguen la numeración de args.
func dateRangeClause(col string, r repository.DateRange, args []any) (string, []any) {
	var parts []string
	if r.From != nil {
		args = append(args, *r.From)
		parts = append(parts, fmt.Sprintf("%s >= $%d", col, len(args)))
	}
	if r.To != nil {
		args = append(args, *r.To)
		parts = append(parts, fmt.Sprintf("%s <= $%d", col, len(args)))
	}
	if len(parts) == 0 {
		return "", args
	}
	return " AND " + strings.Join(parts, " AND "), args
}
