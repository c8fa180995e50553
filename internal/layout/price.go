package layout

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price in reais with two decimals and a decimal comma,
// e.g. 12.5 becomes "R$ 12,50". Half cents round away from zero on the
// shortest decimal form of the price, so 2.675 becomes "R$ 2,68".
func FormatPrice(preco float64) string {
	s := decimal.NewFromFloat(preco).StringFixed(2)
	return "R$ " + strings.Replace(s, ".", ",", 1)
}
