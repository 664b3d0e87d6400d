package inventory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

// Batch es la vista mínima de un lote para el costeo FIFO.
type Batch struct {
	ID             string
	RemainingCount int64
	UnitCost       int64
}

// Allocation unidades que un lote aportó a una venta.
type Allocation struct {
	BatchID  string
	Index    int // posición del lote en el slice recibido
	Quantity int64
	UnitCost int64
}

// InsufficientInventoryError indica cuántas unidades faltaron para cubrir la venta.
type InsufficientInventoryError struct {
	ProductID string
	Missing   int64
}

func (e *InsufficientInventoryError) Error() string {
	if e.ProductID != "" {
		return fmt.Sprintf("stock insuficiente para el producto %s: faltan %d unidades", e.ProductID, e.Missing)
	}
	return fmt.Sprintf("stock insuficiente: faltan %d unidades", e.Missing)
}

// Is permite errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientInventoryError) Is(target error) bool {
	return target == domain.ErrInsufficientStock
}

// AsInsufficientInventory extrae el faltante de err, si lo hay.
func AsInsufficientInventory(err error) (*InsufficientInventoryError, bool) {
	var ie *InsufficientInventoryError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// CalculateUnitCostAndDeductInventory descuenta quantityToSell de los lotes en orden FIFO
// (el slice debe venir del más antiguo al más reciente) y devuelve el costo unitario ponderado.
// Modifica RemainingCount de los elementos de batches en su lugar.
func CalculateUnitCostAndDeductInventory(batches []Batch, quantityToSell int64) (int64, error) {
	unitCost, _, err := AllocateFIFO(batches, quantityToSell)
	return unitCost, err
}

// AllocateFIFO es CalculateUnitCostAndDeductInventory más el detalle de consumo por lote.
//
// Si el stock total no alcanza devuelve *InsufficientInventoryError con el faltante; los lotes
// quedan descontados parcialmente y el llamador debe abortar su transacción.
// El costo unitario se redondea al entero con redondeo bancario (mitad al par).
func AllocateFIFO(batches []Batch, quantityToSell int64) (int64, []Allocation, error) {
	if quantityToSell < 0 {
		return 0, nil, domain.ErrInvalidInput
	}
	if quantityToSell == 0 {
		return 0, nil, nil
	}

	totalCost := decimal.Zero
	remainingNeeded := quantityToSell
	var allocs []Allocation

	for i := range batches {
		if remainingNeeded == 0 {
			break
		}
		b := &batches[i]
		if b.RemainingCount <= 0 {
			continue
		}
		take := b.RemainingCount
		if take >= remainingNeeded {
			take = remainingNeeded
		}
		totalCost = totalCost.Add(decimal.NewFromInt(take).Mul(decimal.NewFromInt(b.UnitCost)))
		b.RemainingCount -= take
		remainingNeeded -= take
		allocs = append(allocs, Allocation{BatchID: b.ID, Index: i, Quantity: take, UnitCost: b.UnitCost})
	}

	if remainingNeeded > 0 {
		return 0, allocs, &InsufficientInventoryError{Missing: remainingNeeded}
	}

	unitCost := totalCost.Div(decimal.NewFromInt(quantityToSell)).RoundBank(0).IntPart()
	return unitCost, allocs, nil
}

// Available suma las unidades disponibles de los lotes.
func Available(batches []Batch) int64 {
	var total int64
	for _, b := range batches {
		if b.RemainingCount > 0 {
			total += b.RemainingCount
		}
	}
	return total
}
