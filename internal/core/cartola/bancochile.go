// internal/core/cartola/bancochile.go
package cartola

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmoralesv/importaCartolas/internal/domain"
)

// Ventanas de búsqueda del formato Banco de Chile.
const (
	bancoChileMinRows           = 5
	bancoChileSignatureScanRows = 25
	bancoChileHeaderScanRows    = 30
)

// Frases características del export de Banco de Chile. La confianza crece
// con cuántas firmas distintas aparecen en la ventana inicial del archivo.
var bancoChileSignatures = []string{
	"detalle de transaccion",
	"monto cheques o cargos",
	"monto depositos o abonos",
	"fecha dia/mes",
}

var bancoChileHeaders = []string{"FECHA", "DESCRIPCION", "CARGO", "ABONO", "REFERENCIA"}

type bancoChileProfile struct{}

func (p *bancoChileProfile) ID() string          { return "bancochile" }
func (p *bancoChileProfile) DisplayName() string { return "Banco de Chile" }

// Detect cuenta cuántas firmas distintas aparecen en cualquier parte de la
// ventana inicial (no por fila). Sin ninguna firma el perfil se descarta
// de inmediato.
func (p *bancoChileProfile) Detect(grid Grid) float64 {
	if len(grid) < bancoChileMinRows {
		return 0
	}

	found := 0
	for _, sig := range bancoChileSignatures {
		for i := 0; i < bancoChileSignatureScanRows && i < len(grid); i++ {
			if rowContains(grid[i], sig) {
				found++
				break
			}
		}
	}

	switch {
	case found >= 3:
		return 0.95
	case found == 2:
		return 0.8
	case found == 1:
		return 0.6
	default:
		return 0
	}
}

type bancoChileColumns struct {
	fecha    int
	detalle  int
	sucursal int
	docto    int
	cargo    int
	abono    int
	saldo    int
}

func (p *bancoChileProfile) Preprocess(grid Grid, fallbackYear int) (*domain.PreprocessResult, error) {
	headerRow := p.findHeaderRow(grid)
	if headerRow == -1 {
		return nil, fmt.Errorf("%w: cartola banco de chile sin fila FECHA/DETALLE", ErrHeaderNotFound)
	}

	meta := p.extractMetadata(grid, headerRow, fallbackYear)
	cols := p.resolveColumns(grid[headerRow])

	var rows []map[string]string
	for i := headerRow + 1; i < len(grid); i++ {
		fecha := grid.cellText(i, cols.fecha)
		detalle := grid.cellText(i, cols.detalle)
		cargoCell := grid.cellAt(i, cols.cargo)
		abonoCell := grid.cellAt(i, cols.abono)

		detalleNorm := normalizeText(detalle)

		// Líneas de saldo de apertura/cierre: no son movimientos.
		if strings.Contains(detalleNorm, "saldo inicial") || strings.Contains(detalleNorm, "saldo final") {
			continue
		}

		if fecha == "" && detalle == "" && cargoCell.IsEmpty() && abonoCell.IsEmpty() {
			continue
		}

		// Las filas de pie (totales, retenciones, saldo disponible) cambian
		// de columna según el archivo, por eso se buscan contra la fila
		// completa y no contra una columna fija.
		texto := rowText(grid[i])
		if strings.Contains(texto, "retencion") ||
			(strings.Contains(texto, "depositos") && strings.Contains(texto, "cheques")) ||
			strings.Contains(texto, "saldo disponible") {
			continue
		}

		// Anotaciones sueltas: celda de fecha con contenido pero sin
		// separador de fecha donde corresponde.
		if fecha != "" && !hasDateSeparator(fecha) {
			continue
		}

		cargo := ""
		if !cargoCell.IsEmpty() {
			cargo = formatAmount(parseAmount(cargoCell))
		}
		abono := ""
		if !abonoCell.IsEmpty() {
			abono = formatAmount(parseAmount(abonoCell))
		}

		rows = append(rows, map[string]string{
			"FECHA":       normalizeDate(fecha, meta.AnioInferido),
			"DESCRIPCION": strings.TrimSpace(detalle),
			"CARGO":       cargo,
			"ABONO":       abono,
			"REFERENCIA":  grid.cellText(i, cols.docto),
		})
	}

	return &domain.PreprocessResult{
		Headers:  bancoChileHeaders,
		Rows:     rows,
		Metadata: meta,
		ColumnMapping: domain.ColumnMapping{
			Date:         "FECHA",
			Description:  "DESCRIPCION",
			AmountDebit:  "CARGO",
			AmountCredit: "ABONO",
			Reference:    "REFERENCIA",
			Confidence:   1.0,
		},
	}, nil
}

// findHeaderRow ubica la fila con FECHA junto a DETALLE o TRANSACCION.
func (p *bancoChileProfile) findHeaderRow(grid Grid) int {
	for i := 0; i < bancoChileHeaderScanRows && i < len(grid); i++ {
		if rowContains(grid[i], "fecha") &&
			(rowContains(grid[i], "detalle") || rowContains(grid[i], "transaccion")) {
			return i
		}
	}
	return -1
}

// extractMetadata recorre las filas sobre el encabezado buscando titular y
// período, e infiere el año que después completa las fechas parciales
// DD/MM de la tabla. El cierre del período es la señal más confiable, por
// eso la última coincidencia gana.
func (p *bancoChileProfile) extractMetadata(grid Grid, headerRow, fallbackYear int) domain.CartolaMetadata {
	meta := domain.CartolaMetadata{Banco: p.DisplayName()}

	for i := 0; i < headerRow; i++ {
		for j := range grid[i] {
			cell := normalizeText(grid.cellText(i, j))
			if cell == "" {
				continue
			}

			if meta.Titular == "" && (strings.Contains(cell, "sr(a)") || strings.Contains(cell, "sr.(a)")) {
				meta.Titular = grid.cellText(i, j+1)
			}

			if strings.Contains(cell, "desde") {
				if fecha, ok := extractDate(grid.cellText(i, j)); ok {
					meta.PeriodoDesde = fecha
				}
				if y, ok := extractYear(grid.cellText(i, j)); ok {
					meta.AnioInferido = y
				}
			}
			if strings.Contains(cell, "hasta") {
				if fecha, ok := extractDate(grid.cellText(i, j)); ok {
					meta.PeriodoHasta = fecha
				}
				if y, ok := extractYear(grid.cellText(i, j)); ok {
					meta.AnioInferido = y
				}
			}
		}
	}

	// Pasada independiente: una celda suelta que sea exactamente una fecha
	// también fija el año, aunque no lleve etiqueta desde/hasta. Años bajo
	// 2000 se descartan como ruido.
	for i := 0; i < headerRow; i++ {
		for j := range grid[i] {
			raw := grid.cellText(i, j)
			if fullDatePattern.MatchString(raw) {
				if y, ok := extractYear(raw); ok && y > 2000 {
					meta.AnioInferido = y
				}
			}
		}
	}

	if meta.AnioInferido == 0 {
		if fallbackYear != 0 {
			meta.AnioInferido = fallbackYear
		} else {
			meta.AnioInferido = time.Now().Year()
		}
	}

	return meta
}

// resolveColumns ubica cada columna conocida por substring normalizado.
// Cada columna resuelve por separado y puede faltar sin que el perfil
// falle.
func (p *bancoChileProfile) resolveColumns(header []Cell) bancoChileColumns {
	cols := bancoChileColumns{
		fecha:    -1,
		detalle:  -1,
		sucursal: -1,
		docto:    -1,
		cargo:    -1,
		abono:    -1,
		saldo:    -1,
	}

	for idx, cell := range header {
		text := normalizeText(cell.Text())
		switch {
		case cols.fecha == -1 && strings.Contains(text, "fecha"):
			cols.fecha = idx
		case cols.detalle == -1 && (strings.Contains(text, "detalle") || strings.Contains(text, "transaccion")):
			cols.detalle = idx
		case cols.sucursal == -1 && strings.Contains(text, "sucursal"):
			cols.sucursal = idx
		case cols.docto == -1 && (strings.Contains(text, "docto") || strings.Contains(text, "documento")):
			cols.docto = idx
		case cols.cargo == -1 && (strings.Contains(text, "cheques") || strings.Contains(text, "cargos")):
			cols.cargo = idx
		case cols.abono == -1 && (strings.Contains(text, "depositos") || strings.Contains(text, "abonos")):
			cols.abono = idx
		case cols.saldo == -1 && strings.Contains(text, "saldo"):
			cols.saldo = idx
		}
	}

	return cols
}

// hasDateSeparator verifica que el texto de fecha traiga un separador de
// fecha (/, - o .) tras el primer o segundo dígito del día.
func hasDateSeparator(s string) bool {
	for _, pos := range []int{1, 2} {
		if pos < len(s) && (s[pos] == '/' || s[pos] == '-' || s[pos] == '.') {
			return true
		}
	}
	return false
}
