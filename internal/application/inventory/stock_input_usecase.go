package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// StockInputUseCase registra entradas de stock. Cada línea crea un lote FIFO y recalcula
// el costo promedio ponderado del producto, todo en una sola transacción.
type StockInputUseCase struct {
	txRunner     TxRunner
	inputRepo    repository.StockInputRepository
	supplierRepo repository.SupplierRepository
	cache        ports.StatsCache
	log          *logger.Logger
	now          func() time.Time
}

// NewStockInputUseCase construye el caso de uso.
func NewStockInputUseCase(
	txRunner TxRunner,
	inputRepo repository.StockInputRepository,
	supplierRepo repository.SupplierRepository,
	cache ports.StatsCache,
	log *logger.Logger,
) *StockInputUseCase {
	return &StockInputUseCase{
		txRunner:     txRunner,
		inputRepo:    inputRepo,
		supplierRepo: supplierRepo,
		cache:        cache,
		log:          log.Component("stock_input"),
		now:          time.Now,
	}
}

// CreateInput valida proveedor y productos, bloquea cada producto (SELECT FOR UPDATE),
// actualiza su AverageCost con CostCalculator e inserta los lotes con RemainingCount = Count.
func (uc *StockInputUseCase) CreateInput(ctx context.Context, userID string, in dto.CreateInputRequest) (*dto.InputResponse, error) {
	if len(in.Lines) == 0 || len(in.Lines) > inventory.MaxLines {
		return nil, fmt.Errorf("%w: la entrada debe tener entre 1 y %d líneas", domain.ErrInvalidInput, inventory.MaxLines)
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !inventory.ValidLine(l.Count, l.UnitCost) {
			return nil, domain.ErrInvalidInput
		}
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.IsDeleted() {
		return nil, fmt.Errorf("%w: el proveedor %s no existe", domain.ErrInvalidInput, in.SupplierID)
	}

	now := uc.now()
	input := &entity.StockInput{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Reference:  in.Reference,
		Date:       now,
		Notes:      in.Notes,
		CreatedBy:  userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Date != nil {
		input.Date = *in.Date
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, &entity.InputInfo{
			ID:             uuid.New().String(),
			InputID:        input.ID,
			ProductID:      l.ProductID,
			Count:          l.Count,
			RemainingCount: l.Count,
			UnitCost:       l.UnitCost,
			CreatedAt:      now,
		})
	}

	err = uc.txRunner.Run(ctx, func(
		inputRepo repository.StockInputRepository,
		_ repository.StockOutputRepository,
		productRepo repository.ProductRepository,
	) error {
		// Los productos se bloquean en orden de ID, igual que en las ventas, para que dos
		// entradas concurrentes con los mismos productos no se crucen en un deadlock.
		ids := productIDs(input.Lines)
		locked := make(map[string]*entity.Product, len(ids))
		stock := make(map[string]int64, len(ids))
		for _, id := range ids {
			p, err := productRepo.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if p == nil || p.IsDeleted() {
				return fmt.Errorf("%w: el producto %s no existe", domain.ErrInvalidInput, id)
			}
			current, err := inputRepo.StockByProduct(ctx, id)
			if err != nil {
				return err
			}
			locked[id] = p
			stock[id] = current
		}
		// Un mismo producto puede repetirse en varias líneas: stock y costo se acumulan en memoria.
		for _, line := range input.Lines {
			p := locked[line.ProductID]
			p.AverageCost = inventory.CostCalculator(
				decimal.NewFromInt(stock[p.ID]), p.AverageCost,
				decimal.NewFromInt(line.Count), decimal.NewFromInt(line.UnitCost),
			)
			stock[p.ID] += line.Count
		}
		for _, id := range ids {
			if err := productRepo.UpdateAverageCost(ctx, id, locked[id].AverageCost); err != nil {
				return err
			}
		}
		return inputRepo.Create(ctx, input)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("input_id", input.ID).Str("supplier_id", input.SupplierID).
		Int("lines", len(input.Lines)).Str("user_id", userID).Msg("Entrada de stock registrada")
	invalidate(ctx, uc.cache, uc.log)
	return toInputResponse(input), nil
}

// GetInput obtiene una entrada con sus lotes (también si está en la papelera).
func (uc *StockInputUseCase) GetInput(ctx context.Context, id string) (*dto.InputResponse, error) {
	input, err := uc.inputRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input == nil {
		return nil, domain.ErrNotFound
	}
	return toInputResponse(input), nil
}

// ListInputs lista entradas por rango de fecha; Deleted lista la papelera.
func (uc *StockInputUseCase) ListInputs(ctx context.Context, page dto.PageRequest, r repository.DateRange) (*dto.InputListResponse, error) {
	page.DefaultPage()
	f := repository.ListFilter{Limit: page.Limit, Offset: page.Offset, Deleted: page.Deleted}
	list, err := uc.inputRepo.List(ctx, f, r)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InputResponse, 0, len(list))
	for _, in := range list {
		items = append(items, *toInputResponse(in))
	}
	return &dto.InputListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// DeleteInput envía la entrada a la papelera solo si ninguno de sus lotes fue consumido;
// desde ese momento sus lotes no participan del FIFO.
func (uc *StockInputUseCase) DeleteInput(ctx context.Context, id string) error {
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(
		inputRepo repository.StockInputRepository,
		_ repository.StockOutputRepository,
		_ repository.ProductRepository,
	) error {
		input, err := inputRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if input == nil || input.IsDeleted() {
			return domain.ErrNotFound
		}
		ids := make([]string, 0, len(input.Lines))
		for _, l := range input.Lines {
			ids = append(ids, l.ID)
		}
		// Bloquea los lotes para que ninguna venta concurrente los consuma mientras se borran.
		lines, err := inputRepo.GetLinesForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if l.Consumed() {
				return fmt.Errorf("%w: el lote %s ya tiene unidades vendidas", domain.ErrConflict, l.ID)
			}
		}
		return inputRepo.SoftDelete(ctx, id, now)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("input_id", id).Msg("Entrada de stock enviada a la papelera")
	invalidate(ctx, uc.cache, uc.log)
	return nil
}

// RestoreInput devuelve la entrada y sus lotes a la cola FIFO.
func (uc *StockInputUseCase) RestoreInput(ctx context.Context, id string) (*dto.InputResponse, error) {
	var restored *entity.StockInput
	err := uc.txRunner.Run(ctx, func(
		inputRepo repository.StockInputRepository,
		_ repository.StockOutputRepository,
		_ repository.ProductRepository,
	) error {
		input, err := inputRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if input == nil {
			return domain.ErrNotFound
		}
		if !input.Restore() {
			return domain.ErrConflict
		}
		restored = input
		return inputRepo.Restore(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("input_id", id).Msg("Entrada de stock restaurada")
	invalidate(ctx, uc.cache, uc.log)
	return toInputResponse(restored), nil
}

func toInputResponse(in *entity.StockInput) *dto.InputResponse {
	resp := &dto.InputResponse{
		ID:         in.ID,
		SupplierID: in.SupplierID,
		Reference:  in.Reference,
		Date:       in.Date,
		Notes:      in.Notes,
		CreatedBy:  in.CreatedBy,
		CreatedAt:  in.CreatedAt,
		DeletedAt:  in.DeletedAt,
		Lines:      make([]dto.InputLineResponse, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		resp.Total += l.TotalCost()
		resp.Lines = append(resp.Lines, dto.InputLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			Count:          l.Count,
			RemainingCount: l.RemainingCount,
			UnitCost:       l.UnitCost,
			TotalCost:      l.TotalCost(),
		})
	}
	return resp
}
