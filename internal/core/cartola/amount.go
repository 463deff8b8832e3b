// internal/core/cartola/amount.go
package cartola

import (
	"math"
	"strconv"
	"strings"
)

var amountCleaner = strings.NewReplacer(
	"$", "",
	" ", "",
	" ", "",
	"\t", "",
)

// parseAmount convierte una celda de monto a pesos enteros con su signo.
//
// Convención Santander: si la celda ya es numérica se redondea al entero
// más cercano; si es texto se eliminan símbolos de moneda, espacios y las
// comas (separador de miles; estas cartolas no traen decimales) y se
// parsea el resto como decimal. Una celda vacía o no parseable vale 0: el
// motor nunca bota una fila por un monto malformado, prefiere importar la
// fila con monto cero a abortar el archivo completo.
func parseAmount(c Cell) int64 {
	if n, ok := c.Number(); ok {
		return int64(math.Round(n))
	}

	s := amountCleaner.Replace(c.Text())
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(val))
}

// formatAmount emite el monto como texto decimal sin separadores,
// la forma que espera el pipeline de importación.
func formatAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}
