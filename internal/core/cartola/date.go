// internal/core/cartola/date.go
package cartola

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	// DD/MM/YYYY con cualquier separador entre /, - y .
	fullDatePattern = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	// YYYY-MM-DD ya canónico (o casi: tolera mes/día sin cero inicial).
	isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	// DD/MM sin año, como imprime Banco de Chile la columna "fecha dia/mes".
	dayMonthPattern = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})$`)
	// DD/MM/YYYY incrustado en un texto mayor (celdas del encabezado).
	embeddedDatePattern = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
)

// normalizeDate lleva un texto de fecha a la forma canónica YYYY-MM-DD.
// Acepta fechas ya completas (DD/MM/YYYY con separador /, - o ., o la
// forma ISO) y la forma parcial DD/MM, que se completa con el año
// entregado (0 usa el año calendario actual). Devuelve "" si el texto no
// calza con ninguna forma conocida: la fila sobrevive con fecha vacía.
func normalizeDate(raw string, year int) string {
	if raw == "" {
		return ""
	}

	if m := fullDatePattern.FindStringSubmatch(raw); m != nil {
		return canonicalDate(m[3], m[2], m[1])
	}
	if m := isoDatePattern.FindStringSubmatch(raw); m != nil {
		return canonicalDate(m[1], m[2], m[3])
	}
	if m := dayMonthPattern.FindStringSubmatch(raw); m != nil {
		if year == 0 {
			year = time.Now().Year()
		}
		return canonicalDate(strconv.Itoa(year), m[2], m[1])
	}
	return ""
}

// extractDate busca la primera fecha DD/MM/YYYY dentro de un texto mayor
// (celdas tipo "Fecha desde: 01/03/2025") y la devuelve canónica.
func extractDate(text string) (string, bool) {
	m := embeddedDatePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return canonicalDate(m[3], m[2], m[1]), true
}

// extractYear devuelve el año de la primera fecha DD/MM/YYYY del texto.
func extractYear(text string) (int, bool) {
	m := embeddedDatePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	y, err := strconv.Atoi(m[3])
	if err != nil {
		return 0, false
	}
	return y, true
}

func canonicalDate(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
}
