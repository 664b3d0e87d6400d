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

var _ repository.StockOutputRepository = (*StockOutputRepo)(nil)

// StockOutputRepo implementación de StockOutputRepository.
type StockOutputRepo struct {
	q Querier
}

// NewStockOutputRepository construye el repositorio; q puede ser el pool o una pgx.Tx.
func NewStockOutputRepository(q Querier) *StockOutputRepo {
	return &StockOutputRepo{q: q}
}

const stockOutputColumns = `id, customer, reference, date, notes, created_by, created_at, updated_at, deleted_at`

func scanStockOutput(row pgx.Row) (*entity.StockOutput, error) {
	var o entity.StockOutput
	err := row.Scan(&o.ID, &o.Customer, &o.Reference, &o.Date, &o.Notes, &o.CreatedBy,
		&o.CreatedAt, &o.UpdatedAt, &o.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta cabecera, líneas y asignaciones; debe llamarse dentro de una transacción.
func (r *StockOutputRepo) Create(ctx context.Context, o *entity.StockOutput) error {
	query := `
		INSERT INTO stock_outputs (id, customer, reference, date, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Customer, o.Reference, o.Date, o.Notes, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert stock output", err)
	}
	lineQuery := `
		INSERT INTO output_infos (id, output_id, product_id, count, unit_price, unit_cost, line_no)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, l := range o.Lines {
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, o.ID, l.ProductID, l.Count, l.UnitPrice, l.UnitCost, i); err != nil {
			return mapWriteErr("insert output info", err)
		}
		if err := r.insertAllocations(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (r *StockOutputRepo) insertAllocations(ctx context.Context, l *entity.OutputInfo) error {
	query := `
		INSERT INTO output_allocations (output_info_id, input_info_id, quantity, unit_cost)
		VALUES ($1, $2, $3, $4)`
	for _, a := range l.Allocations {
		if _, err := r.q.Exec(ctx, query, l.ID, a.InputInfoID, a.Quantity, a.UnitCost); err != nil {
			return mapWriteErr("insert output allocation", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con líneas y asignaciones; nil si no existe.
func (r *StockOutputRepo) GetByID(ctx context.Context, id string) (*entity.StockOutput, error) {
	o, err := scanStockOutput(r.q.QueryRow(ctx, `SELECT `+stockOutputColumns+` FROM stock_outputs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock output: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, output_id, product_id, count, unit_price, unit_cost
		FROM output_infos WHERE output_id = $1 ORDER BY line_no`, id)
	if err != nil {
		return nil, fmt.Errorf("get output infos: %w", err)
	}
	byID := make(map[string]*entity.OutputInfo)
	for rows.Next() {
		var l entity.OutputInfo
		if err := rows.Scan(&l.ID, &l.OutputID, &l.ProductID, &l.Count, &l.UnitPrice, &l.UnitCost); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan output info: %w", err)
		}
		o.Lines = append(o.Lines, &l)
		byID[l.ID] = &l
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get output infos: %w", err)
	}

	allocRows, err := r.q.Query(ctx, `
		SELECT oa.output_info_id, oa.input_info_id, oa.quantity, oa.unit_cost
		FROM output_allocations oa
		JOIN output_infos oi ON oi.id = oa.output_info_id
		JOIN input_infos ii ON ii.id = oa.input_info_id
		JOIN stock_inputs si ON si.id = ii.input_id
		WHERE oi.output_id = $1
		ORDER BY `+fifoOrder, id)
	if err != nil {
		return nil, fmt.Errorf("get output allocations: %w", err)
	}
	defer allocRows.Close()
	for allocRows.Next() {
		var a entity.OutputAllocation
		if err := allocRows.Scan(&a.OutputInfoID, &a.InputInfoID, &a.Quantity, &a.UnitCost); err != nil {
			return nil, fmt.Errorf("scan output allocation: %w", err)
		}
		if l, ok := byID[a.OutputInfoID]; ok {
			l.Allocations = append(l.Allocations, &a)
		}
	}
	if err := allocRows.Err(); err != nil {
		return nil, fmt.Errorf("get output allocations: %w", err)
	}
	return o, nil
}

// List devuelve cabeceras con sus líneas (sin asignaciones), más recientes primero.
func (r *StockOutputRepo) List(ctx context.Context, f repository.ListFilter, dr repository.DateRange) ([]*entity.StockOutput, error) {
	args := []any{f.Limit, f.Offset}
	where, args := dateRangeClause("date", dr, args)
	query := `SELECT ` + stockOutputColumns + ` FROM stock_outputs WHERE ` + trashClause(f.Deleted) + where + `
		ORDER BY date DESC, created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock outputs: %w", err)
	}
	var list []*entity.StockOutput
	byID := make(map[string]*entity.StockOutput)
	ids := make([]string, 0)
	for rows.Next() {
		o, err := scanStockOutput(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan stock output: %w", err)
		}
		list = append(list, o)
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stock outputs: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	lineRows, err := r.q.Query(ctx, `
		SELECT id, output_id, product_id, count, unit_price, unit_cost
		FROM output_infos WHERE output_id = ANY($1::uuid[]) ORDER BY output_id, line_no`, ids)
	if err != nil {
		return nil, fmt.Errorf("list output infos: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		var l entity.OutputInfo
		if err := lineRows.Scan(&l.ID, &l.OutputID, &l.ProductID, &l.Count, &l.UnitPrice, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan output info: %w", err)
		}
		if o, ok := byID[l.OutputID]; ok {
			o.Lines = append(o.Lines, &l)
		}
	}
	return list, lineRows.Err()
}

func (r *StockOutputRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	return softDelete(ctx, r.q, "stock_outputs", id, at)
}

func (r *StockOutputRepo) Restore(ctx context.Context, id string) error {
	return restoreRow(ctx, r.q, "stock_outputs", id)
}

// ReplaceAllocations reescribe costo y asignaciones de cada línea tras una nueva asignación FIFO.
func (r *StockOutputRepo) ReplaceAllocations(ctx context.Context, lines []*entity.OutputInfo) error {
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, `DELETE FROM output_allocations WHERE output_info_id = $1`, l.ID); err != nil {
			return fmt.Errorf("delete output allocations: %w", err)
		}
		if _, err := r.q.Exec(ctx, `UPDATE output_infos SET unit_cost = $2 WHERE id = $1`, l.ID, l.UnitCost); err != nil {
			return fmt.Errorf("update output unit cost: %w", err)
		}
		if err := r.insertAllocations(ctx, l); err != nil {
			return err
		}
	}
	return nil
}
