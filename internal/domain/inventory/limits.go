package inventory

// Límites de entrada. Con ellos Count*UnitPrice de una línea y la suma de una venta o
// entrada completa caben en int64 sin desbordar.
const (
	MaxLineCount  int64 = 1_000_000
	MaxUnitAmount int64 = 10_000_000_000
	MaxLines            = 200
)

// ValidLine indica si cantidad e importe unitario están dentro de los límites.
func ValidLine(count, unitAmount int64) bool {
	return count > 0 && count <= MaxLineCount && unitAmount >= 0 && unitAmount <= MaxUnitAmount
}
