// internal/core/cartola/generic.go
package cartola

import (
	"strings"

	"github.com/schollz/closestmatch"

	"github.com/cmoralesv/importaCartolas/internal/domain"
)

// Ventana de búsqueda de encabezado para archivos de formato desconocido.
const genericHeaderScanRows = 40

// Palabras clave por campo semántico, en los idiomas que aparecen en los
// archivos que recibimos. El mapeador genérico no conoce el banco: sólo
// adivina columnas, por eso su confianza nunca llega a 1.0.
var genericKeywords = map[string][]string{
	"date":        {"fecha", "data", "date"},
	"description": {"descripcion", "detalle", "glosa", "description", "historico", "concepto"},
	"amount":      {"monto", "importe", "valor", "amount"},
	"debit":       {"cargo", "cargos", "debito", "debit", "cheques"},
	"credit":      {"abono", "abonos", "credito", "credit", "depositos"},
	"reference":   {"documento", "docto", "referencia", "reference", "nro"},
}

// GenericMapping es la sugerencia del mapeador heurístico: dónde está la
// fila de encabezado y qué columna de origen correspondería a cada campo.
// A diferencia de los perfiles, los valores del mapeo son los textos de
// encabezado del archivo original.
type GenericMapping struct {
	HeaderRow int                  `json:"headerRow"`
	Mapping   domain.ColumnMapping `json:"mapping"`
}

// GuessColumnMapping intenta mapear columnas de una grilla que ningún
// perfil reconoció. Devuelve false si ni siquiera se encuentra una fila
// que parezca encabezado.
func GuessColumnMapping(grid Grid) (*GenericMapping, bool) {
	headerRow := findGenericHeaderRow(grid)
	if headerRow == -1 {
		return nil, false
	}

	header := grid[headerRow]
	texts := make([]string, len(header))
	norms := make([]string, len(header))
	for i, c := range header {
		texts[i] = c.Text()
		norms[i] = normalizeText(c.Text())
	}

	resolve := func(field string) int {
		for _, kw := range genericKeywords[field] {
			for idx, n := range norms {
				if n != "" && strings.Contains(n, kw) {
					return idx
				}
			}
		}
		return -1
	}

	idxDate := resolve("date")
	idxDesc := resolve("description")
	idxAmount := resolve("amount")
	idxDebit := resolve("debit")
	idxCredit := resolve("credit")
	idxRef := resolve("reference")

	// Segundo intento por proximidad para los campos obligatorios que la
	// búsqueda por substring no encontró (encabezados con typos o
	// abreviados).
	if idxDate == -1 || idxDesc == -1 {
		var candidates []string
		for _, n := range norms {
			if n != "" {
				candidates = append(candidates, n)
			}
		}
		if len(candidates) > 0 {
			cm := closestmatch.New(candidates, []int{3, 4})
			if idxDate == -1 {
				idxDate = indexOfNorm(norms, cm.Closest("fecha"))
			}
			if idxDesc == -1 {
				idxDesc = indexOfNorm(norms, cm.Closest("descripcion"))
			}
		}
	}

	mapping := domain.ColumnMapping{}
	hits := 0

	if idxDate != -1 {
		mapping.Date = texts[idxDate]
		hits++
	}
	if idxDesc != -1 {
		mapping.Description = texts[idxDesc]
		hits++
	}
	// Forma de doble columna sólo cuando aparecen ambas; si no, monto
	// único. Nunca las dos formas a la vez.
	if idxDebit != -1 && idxCredit != -1 {
		mapping.AmountDebit = texts[idxDebit]
		mapping.AmountCredit = texts[idxCredit]
		hits += 2
	} else if idxAmount != -1 {
		mapping.Amount = texts[idxAmount]
		hits++
	}
	if idxRef != -1 {
		mapping.Reference = texts[idxRef]
		hits++
	}

	if mapping.Amount == "" && mapping.AmountDebit == "" {
		return nil, false
	}

	mapping.Confidence = 0.4 + 0.1*float64(hits)
	if mapping.Confidence > 0.9 {
		mapping.Confidence = 0.9
	}

	return &GenericMapping{HeaderRow: headerRow, Mapping: mapping}, true
}

// findGenericHeaderRow busca la primera fila con al menos dos campos
// semánticos distintos reconocibles.
func findGenericHeaderRow(grid Grid) int {
	for i := 0; i < genericHeaderScanRows && i < len(grid); i++ {
		fields := 0
		for field := range genericKeywords {
			for _, kw := range genericKeywords[field] {
				if rowContains(grid[i], kw) {
					fields++
					break
				}
			}
		}
		if fields >= 2 {
			return i
		}
	}
	return -1
}

func indexOfNorm(norms []string, match string) int {
	if match == "" {
		return -1
	}
	for i, n := range norms {
		if n == match {
			return i
		}
	}
	return -1
}
