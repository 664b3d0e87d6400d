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

var _ repository.StockInputRepository = (*StockInputRepo)(nil)

// StockInputRepo implementación de StockInputRepository. Las líneas (input_infos) son los lotes FIFO.
type StockInputRepo struct {
	q Querier
}

// NewStockInputRepository construye el repositorio; q puede ser el pool o una pgx.Tx.
func NewStockInputRepository(q Querier) *StockInputRepo {
	return &StockInputRepo{q: q}
}

const stockInputColumns = `id, supplier_id, reference, date, notes, created_by, created_at, updated_at, deleted_at`

// fifoOrder orden de consumo de lotes: fecha de la entrada, luego alta de la línea y posición.
const fifoOrder = `si.date, ii.created_at, ii.line_no`

const inputInfoColumns = `ii.id, ii.input_id, ii.product_id, ii.count, ii.remaining_count, ii.unit_cost, ii.created_at`

func scanStockInput(row pgx.Row) (*entity.StockInput, error) {
	var in entity.StockInput
	err := row.Scan(&in.ID, &in.SupplierID, &in.Reference, &in.Date, &in.Notes, &in.CreatedBy,
		&in.CreatedAt, &in.UpdatedAt, &in.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

func collectInputInfos(rows pgx.Rows) ([]*entity.InputInfo, error) {
	defer rows.Close()
	var list []*entity.InputInfo
	for rows.Next() {
		var l entity.InputInfo
		if err := rows.Scan(&l.ID, &l.InputID, &l.ProductID, &l.Count, &l.RemainingCount, &l.UnitCost, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan input info: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Create inserta la cabecera y sus líneas; debe llamarse dentro de una transacción.
func (r *StockInputRepo) Create(ctx context.Context, in *entity.StockInput) error {
	query := `
		INSERT INTO stock_inputs (id, supplier_id, reference, date, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		in.ID, in.SupplierID, in.Reference, in.Date, in.Notes, in.CreatedBy, in.CreatedAt, in.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert stock input", err)
	}
	lineQuery := `
		INSERT INTO input_infos (id, input_id, product_id, count, remaining_count, unit_cost, line_no, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, l := range in.Lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, in.ID, l.ProductID, l.Count, l.RemainingCount, l.UnitCost, i, l.CreatedAt,
		)
		if err != nil {
			return mapWriteErr("insert input info", err)
		}
	}
	return nil
}

// GetByID devuelve la entrada con sus líneas en el orden de captura.
func (r *StockInputRepo) GetByID(ctx context.Context, id string) (*entity.StockInput, error) {
	in, err := scanStockInput(r.q.QueryRow(ctx, `SELECT `+stockInputColumns+` FROM stock_inputs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock input: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+inputInfoColumns+` FROM input_infos ii WHERE ii.input_id = $1 ORDER BY ii.line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get input infos: %w", err)
	}
	if in.Lines, err = collectInputInfos(rows); err != nil {
		return nil, err
	}
	return in, nil
}

// List devuelve cabeceras (sin líneas), más recientes primero.
func (r *StockInputRepo) List(ctx context.Context, f repository.ListFilter, dr repository.DateRange) ([]*entity.StockInput, error) {
	args := []any{f.Limit, f.Offset}
	where, args := dateRangeClause("date", dr, args)
	query := `SELECT ` + stockInputColumns + ` FROM stock_inputs WHERE ` + trashClause(f.Deleted) + where + `
		ORDER BY date DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock inputs: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockInput
	for rows.Next() {
		in, err := scanStockInput(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock input: %w", err)
		}
		list = append(list, in)
	}
	return list, rows.Err()
}

func (r *StockInputRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.q, "stock_inputs", id, at)
}

func (r *StockInputRepo) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.q, "stock_inputs", id)
}

func (r *StockInputRepo) ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.InputInfo, error) {
	query := `
		SELECT ` + inputInfoColumns + `
		FROM input_infos ii
		JOIN stock_inputs si ON si.id = ii.input_id
		JOIN products p ON p.id = ii.product_id
		WHERE ii.product_id = $1 AND ii.remaining_count > 0
		  AND si.deleted_at IS NULL AND p.deleted_at IS NULL
		ORDER BY ` + fifoOrder + `
		FOR UPDATE OF ii`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("lock batches: %w", err)
	}
	return collectInputInfos(rows)
}

func (r *StockInputRepo) ListBatchesByProduct(ctx context.Context, productID string) ([]*entity.InputInfo, error) {
	query := `
		SELECT ` + inputInfoColumns + `
		FROM input_infos ii
		JOIN stock_inputs si ON si.id = ii.input_id
		WHERE ii.product_id = $1 AND ii.remaining_count > 0 AND si.deleted_at IS NULL
		ORDER BY ` + fifoOrder
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return collectInputInfos(rows)
}

// GetLinesForUpdate bloquea los lotes indicados en orden de ID.
func (r *StockInputRepo) GetLinesForUpdate(ctx context.Context, ids []string) ([]*entity.InputInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + inputInfoColumns + ` FROM input_infos ii WHERE ii.id = ANY($1::uuid[]) ORDER BY ii.id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock input infos: %w", err)
	}
	return collectInputInfos(rows)
}

func (r *StockInputRepo) UpdateRemaining(ctx context.Context, lineID string, remaining int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE input_infos SET remaining_count = $2 WHERE id = $1`, lineID, remaining)
	if err != nil {
		return fmt.Errorf("update remaining: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update remaining: lote %s no existe", lineID)
	}
	return nil
}

func (r *StockInputRepo) StockByProduct(ctx context.Context, productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(ii.remaining_count), 0)::BIGINT
		FROM input_infos ii
		JOIN stock_inputs si ON si.id = ii.input_id
		WHERE ii.product_id = $1 AND si.deleted_at IS NULL`
	var stock int64
	if err := r.q.QueryRow(ctx, query, productID).Scan(&stock); err != nil {
		return 0, fmt.Errorf("stock by product: %w", err)
	}
	return stock, nil
}
