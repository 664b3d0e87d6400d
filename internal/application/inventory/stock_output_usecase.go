package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/logger"
)

// StockOutputUseCase registra ventas costeadas por FIFO. Los lotes se leen con SELECT FOR UPDATE
// dentro de la transacción, así dos ventas concurrentes del mismo producto se serializan.
type StockOutputUseCase struct {
	txRunner   TxRunner
	outputRepo repository.StockOutputRepository
	cache      ports.StatsCache
	log        *logger.Logger
	now        func() time.Time
}

// NewStockOutputUseCase construye el caso de uso.
func NewStockOutputUseCase(
	txRunner TxRunner,
	outputRepo repository.StockOutputRepository,
	cache ports.StatsCache,
	log *logger.Logger,
) *StockOutputUseCase {
	return &StockOutputUseCase{
		txRunner:   txRunner,
		outputRepo: outputRepo,
		cache:      cache,
		log:        log.Component("stock_output"),
		now:        time.Now,
	}
}

// CreateOutput registra la venta completa o nada: si alguna línea no tiene stock suficiente
// se devuelve *inventory.InsufficientInventoryError y la transacción se revierte.
func (uc *StockOutputUseCase) CreateOutput(ctx context.Context, userID string, in dto.CreateOutputRequest) (*dto.OutputResponse, error) {
	if len(in.Lines) == 0 || len(in.Lines) > inventory.MaxLines {
		return nil, fmt.Errorf("%w: la venta debe tener entre 1 y %d líneas", domain.ErrInvalidInput, inventory.MaxLines)
	}
	for _, l := range in.Lines {
		var price int64
		if l.UnitPrice != nil {
			price = *l.UnitPrice
		}
		if l.ProductID == "" || !inventory.ValidLine(l.Count, price) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := uc.now()
	output := &entity.StockOutput{
		ID:        uuid.New().String(),
		Customer:  in.Customer,
		Reference: in.Reference,
		Date:      now,
		Notes:     in.Notes,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Date != nil {
		output.Date = *in.Date
	}

	err := uc.txRunner.Run(ctx, func(
		inputRepo repository.StockInputRepository,
		outputRepo repository.StockOutputRepository,
		productRepo repository.ProductRepository,
	) error {
		prices := make(map[string]int64)
		for _, l := range in.Lines {
			if _, ok := prices[l.ProductID]; ok {
				continue
			}
			p, err := productRepo.GetByID(ctx, l.ProductID)
			if err != nil {
				return err
			}
			if p == nil || p.IsDeleted() {
				return fmt.Errorf("%w: el producto %s no existe", domain.ErrInvalidInput, l.ProductID)
			}
			prices[p.ID] = p.Price
		}

		output.Lines = make([]*entity.OutputInfo, 0, len(in.Lines))
		for _, l := range in.Lines {
			price := prices[l.ProductID]
			if l.UnitPrice != nil {
				price = *l.UnitPrice
			}
			output.Lines = append(output.Lines, &entity.OutputInfo{
				ID:        uuid.New().String(),
				OutputID:  output.ID,
				ProductID: l.ProductID,
				Count:     l.Count,
				UnitPrice: price,
			})
		}

		alloc, err := lockQueues(ctx, inputRepo, output.Lines)
		if err != nil {
			return err
		}
		for _, line := range output.Lines {
			if err := alloc.allocate(line); err != nil {
				return err
			}
		}
		if err := alloc.flush(ctx); err != nil {
			return err
		}
		return outputRepo.Create(ctx, output)
	})
	if err != nil {
		if ie, ok := inventory.AsInsufficientInventory(err); ok {
			uc.log.Info().Str("product_id", ie.ProductID).Int64("missing", ie.Missing).Msg("Venta rechazada por stock insuficiente")
		}
		return nil, err
	}

	uc.log.Info().Str("output_id", output.ID).Int("lines", len(output.Lines)).Str("user_id", userID).Msg("Venta registrada")
	invalidate(ctx, uc.cache, uc.log)
	return toOutputResponse(output), nil
}

// GetOutput obtiene una venta con líneas y asignaciones (también si está anulada).
func (uc *StockOutputUseCase) GetOutput(ctx context.Context, id string) (*dto.OutputResponse, error) {
	output, err := uc.outputRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if output == nil {
		return nil, domain.ErrNotFound
	}
	return toOutputResponse(output), nil
}

// ListOutputs lista ventas por rango de fecha; Deleted lista las anuladas.
func (uc *StockOutputUseCase) ListOutputs(ctx context.Context, page dto.PageRequest, r repository.DateRange) (*dto.OutputListResponse, error) {
	page.DefaultPage()
	f := repository.ListFilter{Limit: page.Limit, Offset: page.Offset, Deleted: page.Deleted}
	list, err := uc.outputRepo.List(ctx, f, r)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OutputResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOutputResponse(o))
	}
	return &dto.OutputListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// DeleteOutput anula la venta: cada asignación devuelve sus unidades al lote de origen.
func (uc *StockOutputUseCase) DeleteOutput(ctx context.Context, id string) error {
	now := uc.now()
	err := uc.txRunner.Run(ctx, func(
		inputRepo repository.StockInputRepository,
		outputRepo repository.StockOutputRepository,
		_ repository.ProductRepository,
	) error {
		output, err := outputRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if output == nil || output.IsDeleted() {
			return domain.ErrNotFound
		}

		var ids []string
		for _, line := range output.Lines {
			for _, al := range line.Allocations {
				ids = append(ids, al.InputInfoID)
			}
		}
		batches, err := inputRepo.GetLinesForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.InputInfo, len(batches))
		for _, b := range batches {
			byID[b.ID] = b
		}
		for _, line := range output.Lines {
			for _, al := range line.Allocations {
				b, ok := byID[al.InputInfoID]
				if !ok {
					return fmt.Errorf("%w: el lote %s ya no existe", domain.ErrConflict, al.InputInfoID)
				}
				b.RemainingCount += al.Quantity
				if b.RemainingCount > b.Count {
					return fmt.Errorf("%w: el lote %s excede su cantidad recibida", domain.ErrConflict, b.ID)
				}
			}
		}
		for _, b := range batches {
			if err := inputRepo.UpdateRemaining(ctx, b.ID, b.RemainingCount); err != nil {
				return err
			}
		}
		return outputRepo.SoftDelete(ctx, id, now)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("output_id", id).Msg("Venta anulada, stock devuelto a sus lotes")
	invalidate(ctx, uc.cache, uc.log)
	return nil
}

// RestoreOutput reactiva una venta anulada corriendo de nuevo el FIFO sobre la cola actual:
// las asignaciones y costos pueden diferir de los originales y puede faltar stock.
func (uc *StockOutputUseCase) RestoreOutput(ctx context.Context, id string) (*dto.OutputResponse, error) {
	var restored *entity.StockOutput
	err := uc.txRunner.Run(ctx, func(
		inputRepo repository.StockInputRepository,
		outputRepo repository.StockOutputRepository,
		productRepo repository.ProductRepository,
	) error {
		output, err := outputRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if output == nil {
			return domain.ErrNotFound
		}
		if !output.Restore() {
			return domain.ErrConflict
		}
		// Igual que al vender: un producto en la papelera no admite ventas.
		for _, productID := range outputProductIDs(output.Lines) {
			p, err := productRepo.GetByID(ctx, productID)
			if err != nil {
				return err
			}
			if p == nil || p.IsDeleted() {
				return fmt.Errorf("%w: el producto %s está en la papelera", domain.ErrConflict, productID)
			}
		}
		alloc, err := lockQueues(ctx, inputRepo, output.Lines)
		if err != nil {
			return err
		}
		for _, line := range output.Lines {
			if err := alloc.allocate(line); err != nil {
				return err
			}
		}
		if err := alloc.flush(ctx); err != nil {
			return err
		}
		if err := outputRepo.ReplaceAllocations(ctx, output.Lines); err != nil {
			return err
		}
		restored = output
		return outputRepo.Restore(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("output_id", id).Msg("Venta restaurada")
	invalidate(ctx, uc.cache, uc.log)
	return toOutputResponse(restored), nil
}

func toOutputResponse(o *entity.StockOutput) *dto.OutputResponse {
	resp := &dto.OutputResponse{
		ID:        o.ID,
		Customer:  o.Customer,
		Reference: o.Reference,
		Date:      o.Date,
		Notes:     o.Notes,
		CreatedBy: o.CreatedBy,
		CreatedAt: o.CreatedAt,
		DeletedAt: o.DeletedAt,
		Lines:     make([]dto.OutputLineResponse, 0, len(o.Lines)),
	}
	for _, l := range o.Lines {
		line := dto.OutputLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Count:       l.Count,
			UnitPrice:   l.UnitPrice,
			UnitCost:    l.UnitCost,
			Revenue:     l.Revenue(),
			Cost:        l.Cost(),
			MarginPct:   inventory.MarginPct(l.Revenue(), l.Cost()),
			Allocations: make([]dto.AllocationResponse, 0, len(l.Allocations)),
		}
		for _, al := range l.Allocations {
			line.Allocations = append(line.Allocations, dto.AllocationResponse{
				InputInfoID: al.InputInfoID,
				Quantity:    al.Quantity,
				UnitCost:    al.UnitCost,
			})
		}
		resp.Revenue += line.Revenue
		resp.Cost += line.Cost
		resp.Lines = append(resp.Lines, line)
	}
	return resp
}
