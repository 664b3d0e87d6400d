package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// fifoQueue lotes bloqueados de un producto en orden FIFO; batches es la copia que muta AllocateFIFO.
type fifoQueue struct {
	lines   []*entity.InputInfo
	batches []inventory.Batch
}

// fifoAllocator reparte líneas de venta sobre las colas FIFO de una transacción.
// Varias líneas del mismo producto consumen la misma cola.
type fifoAllocator struct {
	inputRepo repository.StockInputRepository
	order     []string
	queues    map[string]*fifoQueue
}

// lockQueues carga y bloquea los lotes de cada producto. Los productos se bloquean en orden
// de ID para que dos ventas concurrentes no se crucen en un deadlock.
func lockQueues(ctx context.Context, inputRepo repository.StockInputRepository, lines []*entity.OutputInfo) (*fifoAllocator, error) {
	a := &fifoAllocator{inputRepo: inputRepo, order: outputProductIDs(lines), queues: make(map[string]*fifoQueue)}
	for _, productID := range a.order {
		rows, err := inputRepo.ListAvailableForUpdate(ctx, productID)
		if err != nil {
			return nil, err
		}
		q := &fifoQueue{lines: rows, batches: make([]inventory.Batch, len(rows))}
		for i, r := range rows {
			q.batches[i] = inventory.Batch{ID: r.ID, RemainingCount: r.RemainingCount, UnitCost: r.UnitCost}
		}
		a.queues[productID] = q
	}
	return a, nil
}

// allocate fija UnitCost y Allocations de la línea.
func (a *fifoAllocator) allocate(line *entity.OutputInfo) error {
	q := a.queues[line.ProductID]
	unitCost, allocs, err := inventory.AllocateFIFO(q.batches, line.Count)
	if err != nil {
		if ie, ok := inventory.AsInsufficientInventory(err); ok {
			ie.ProductID = line.ProductID
		}
		return err
	}
	line.UnitCost = unitCost
	line.Allocations = make([]*entity.OutputAllocation, 0, len(allocs))
	for _, al := range allocs {
		line.Allocations = append(line.Allocations, &entity.OutputAllocation{
			OutputInfoID: line.ID,
			InputInfoID:  al.BatchID,
			Quantity:     al.Quantity,
			UnitCost:     al.UnitCost,
		})
	}
	return nil
}

// sortedUnique devuelve los IDs sin repetir y ordenados: el orden en que se toman los locks.
func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func productIDs(lines []*entity.InputInfo) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	return sortedUnique(ids)
}

func outputProductIDs(lines []*entity.OutputInfo) []string {
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = l.ProductID
	}
	return sortedUnique(ids)
}

// flush persiste el RemainingCount de los lotes que cambiaron.
func (a *fifoAllocator) flush(ctx context.Context) error {
	for _, productID := range a.order {
		q := a.queues[productID]
		for i, b := range q.batches {
			if b.RemainingCount == q.lines[i].RemainingCount {
				continue
			}
			if err := a.inputRepo.UpdateRemaining(ctx, b.ID, b.RemainingCount); err != nil {
				return err
			}
			q.lines[i].RemainingCount = b.RemainingCount
		}
	}
	return nil
}
