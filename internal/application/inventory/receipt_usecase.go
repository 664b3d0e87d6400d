package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tienda-api/internal/application/ports"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// ReceiptUseCase genera el comprobante PDF de una venta con precio, costo FIFO y margen por línea.
type ReceiptUseCase struct {
	outputRepo  repository.StockOutputRepository
	productRepo repository.ProductRepository
	generator   ports.SaleReceiptGenerator
	storeName   string
}

// NewReceiptUseCase construye el caso de uso inyectando todas sus dependencias.
func NewReceiptUseCase(
	outputRepo repository.StockOutputRepository,
	productRepo repository.ProductRepository,
	generator ports.SaleReceiptGenerator,
	storeName string,
) *ReceiptUseCase {
	return &ReceiptUseCase{outputRepo: outputRepo, productRepo: productRepo, generator: generator, storeName: storeName}
}

// OutputReceiptPDF devuelve el PDF y un nombre de archivo sugerido.
// Las ventas anuladas también se imprimen, marcadas como tales.
func (uc *ReceiptUseCase) OutputReceiptPDF(ctx context.Context, outputID string) ([]byte, string, error) {
	output, err := uc.outputRepo.GetByID(ctx, outputID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if output == nil {
		return nil, "", domain.ErrNotFound
	}

	receipt := &ports.SaleReceipt{
		StoreName: uc.storeName,
		OutputID:  output.ID,
		Reference: output.Reference,
		Customer:  output.Customer,
		Date:      output.Date,
		Cancelled: output.IsDeleted(),
	}
	for _, l := range output.Lines {
		line := ports.SaleReceiptLine{Count: l.Count, UnitPrice: l.UnitPrice, UnitCost: l.UnitCost}
		p, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("pdf: obtener producto %s: %w", l.ProductID, err)
		}
		if p != nil {
			line.SKU, line.Name = p.SKU, p.Name
		} else {
			line.Name = l.ProductID
		}
		receipt.Lines = append(receipt.Lines, line)
	}

	pdf, err := uc.generator.GenerateSaleReceipt(receipt)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return pdf, fmt.Sprintf("venta-%s.pdf", output.ID), nil
}
