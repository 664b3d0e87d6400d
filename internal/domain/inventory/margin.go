package inventory

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MarginPct margen bruto porcentual (revenue - cogs) / revenue * 100 con 2 decimales; 0 sin ingresos.
func MarginPct(revenue, cogs int64) decimal.Decimal {
	if revenue == 0 {
		return decimal.Zero
	}
	rev := decimal.NewFromInt(revenue)
	return rev.Sub(decimal.NewFromInt(cogs)).Div(rev).Mul(hundred).Round(2)
}
