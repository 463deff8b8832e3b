// internal/core/cartola/grid.go
package cartola

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellText
	cellNumber
)

// Cell es una celda cruda tal como la entrega el lector de archivos:
// vacía, texto o número. Ninguna otra estructura del motor se construye
// a partir de algo distinto de una grilla de celdas.
type Cell struct {
	kind   cellKind
	text   string
	number float64
}

// TextCell crea una celda de texto.
func TextCell(s string) Cell {
	return Cell{kind: cellText, text: s}
}

// NumberCell crea una celda numérica (celdas numéricas de planillas XLSX).
func NumberCell(n float64) Cell {
	return Cell{kind: cellNumber, number: n}
}

// EmptyCell crea una celda sin valor.
func EmptyCell() Cell {
	return Cell{}
}

// Text devuelve la representación textual de la celda, recortada.
func (c Cell) Text() string {
	switch c.kind {
	case cellText:
		return strings.TrimSpace(c.text)
	case cellNumber:
		return strconv.FormatFloat(c.number, 'f', -1, 64)
	default:
		return ""
	}
}

// Number devuelve el valor numérico de la celda, si lo tiene.
func (c Cell) Number() (float64, bool) {
	if c.kind == cellNumber {
		return c.number, true
	}
	return 0, false
}

// IsEmpty informa si la celda no aporta valor (ausente o texto en blanco).
func (c Cell) IsEmpty() bool {
	return c.Text() == ""
}

// Grid es la grilla cruda leída de una planilla o CSV. Las filas no tienen
// largo garantizado: cada acceso debe tolerar columnas faltantes.
type Grid [][]Cell

// GridFromRows convierte filas de texto (salida típica de los lectores de
// planillas) en una grilla de celdas.
func GridFromRows(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			if strings.TrimSpace(v) == "" {
				cells[j] = EmptyCell()
			} else {
				cells[j] = TextCell(v)
			}
		}
		g[i] = cells
	}
	return g
}

// cellText devuelve el texto de la celda (fila, col), o "" si no existe.
func (g Grid) cellText(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col].Text()
}

// cellAt devuelve la celda (fila, col), o una celda vacía si no existe.
func (g Grid) cellAt(row, col int) Cell {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return EmptyCell()
	}
	return g[row][col]
}

// normalizeText baja a minúsculas y elimina tildes para comparar textos de
// celdas sin depender de cómo acentúa cada banco ("Transacción" calza con
// "transaccion"). Conserva puntuación: marcadores como "CARGO/ABONO" o
// "fecha dia/mes" se comparan con el slash incluido.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, s)
	result = strings.ToLower(result)
	return strings.Join(strings.Fields(result), " ")
}

// rowContains informa si alguna celda de la fila contiene el texto buscado
// (comparación normalizada, por substring).
func rowContains(row []Cell, needle string) bool {
	for _, c := range row {
		if strings.Contains(normalizeText(c.Text()), needle) {
			return true
		}
	}
	return false
}

// rowText concatena todas las celdas de una fila en un solo texto
// normalizado. Los perfiles lo usan para reconocer filas de resumen cuyo
// contenido cambia de columna según el archivo.
func rowText(row []Cell) string {
	parts := make([]string, 0, len(row))
	for _, c := range row {
		if t := c.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return normalizeText(strings.Join(parts, " "))
}
