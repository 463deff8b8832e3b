// internal/core/cartola/santander.go
package cartola

import (
	"fmt"
	"strings"

	"github.com/cmoralesv/importaCartolas/internal/domain"
)

// Ventanas de búsqueda del formato Santander. Una cartola sin movimientos
// queda bajo el mínimo de filas y se rechaza: no se puede clasificar de
// forma confiable.
const (
	santanderMinRows        = 12
	santanderFlagScanRows   = 15
	santanderHeaderScanRows = 20
	santanderMaxDescription = 500
)

// Frase de título que Santander imprime en la primera celda del archivo.
const santanderTitle = "movimientos de cuenta corriente"

// Marcador de la columna de signo cargo/abono, exclusivo de este formato.
const santanderFlagMarker = "cargo/abono"

var santanderHeaders = []string{"FECHA", "DESCRIPCION", "MONTO", "REFERENCIA"}

// Referencia basura que imprime el export de Santander cuando el
// movimiento no tiene documento asociado.
const santanderEmptyReference = "000000000"

type santanderProfile struct{}

func (p *santanderProfile) ID() string          { return "santander" }
func (p *santanderProfile) DisplayName() string { return "Banco Santander" }

// Detect acumula dos señales independientes: el título del reporte en la
// primera celda (0.5) y el marcador CARGO/ABONO en alguna de las primeras
// filas (0.45). Una coincidencia parcial sigue dando un puntaje usable.
func (p *santanderProfile) Detect(grid Grid) float64 {
	if len(grid) < santanderMinRows {
		return 0
	}

	score := 0.0
	if strings.Contains(normalizeText(grid.cellText(0, 0)), santanderTitle) {
		score += 0.5
	}
	for i := 0; i < santanderFlagScanRows && i < len(grid); i++ {
		if rowContains(grid[i], santanderFlagMarker) {
			score += 0.45
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

// santanderColumns son los índices resueltos contra la fila de encabezado.
// -1 significa columna ausente; el perfil degrada saltándola en vez de
// fallar.
type santanderColumns struct {
	fecha       int
	descripcion int
	monto       int
	flag        int
	documento   int
	saldo       int
	sucursal    int
}

func (p *santanderProfile) Preprocess(grid Grid, fallbackYear int) (*domain.PreprocessResult, error) {
	headerRow := p.findHeaderRow(grid)
	if headerRow == -1 {
		return nil, fmt.Errorf("%w: cartola santander sin fila MONTO/CARGO-ABONO", ErrHeaderNotFound)
	}

	meta := p.extractMetadata(grid, headerRow)

	cols := p.resolveColumns(grid[headerRow])

	var rows []map[string]string
	for i := headerRow + 1; i < len(grid); i++ {
		fecha := grid.cellText(i, cols.fecha)
		descripcion := grid.cellText(i, cols.descripcion)
		montoCell := grid.cellAt(i, cols.monto)

		// Filas separadoras en blanco, comunes en este export.
		if fecha == "" && descripcion == "" && montoCell.IsEmpty() {
			continue
		}

		monto := parseAmount(montoCell)

		// La columna CARGO/ABONO manda sobre el signo impreso: C fuerza
		// cargo (negativo), A fuerza abono (positivo).
		flag := strings.ToUpper(grid.cellText(i, cols.flag))
		switch {
		case strings.HasPrefix(flag, "C") && monto > 0:
			monto = -monto
		case strings.HasPrefix(flag, "A") && monto < 0:
			monto = -monto
		}

		referencia := grid.cellText(i, cols.documento)
		if referencia == santanderEmptyReference {
			referencia = ""
		}

		descripcion = strings.TrimSpace(descripcion)
		if runes := []rune(descripcion); len(runes) > santanderMaxDescription {
			descripcion = string(runes[:santanderMaxDescription])
		}

		rows = append(rows, map[string]string{
			"FECHA":       normalizeDate(fecha, fallbackYear),
			"DESCRIPCION": descripcion,
			"MONTO":       formatAmount(monto),
			"REFERENCIA":  referencia,
		})
	}

	return &domain.PreprocessResult{
		Headers:  santanderHeaders,
		Rows:     rows,
		Metadata: meta,
		ColumnMapping: domain.ColumnMapping{
			Date:        "FECHA",
			Description: "DESCRIPCION",
			Amount:      "MONTO",
			Reference:   "REFERENCIA",
			Confidence:  1.0,
		},
	}, nil
}

// findHeaderRow ubica la fila que contiene MONTO y CARGO/ABONO dentro de
// la ventana de búsqueda. -1 si no aparece.
func (p *santanderProfile) findHeaderRow(grid Grid) int {
	for i := 0; i < santanderHeaderScanRows && i < len(grid); i++ {
		if rowContains(grid[i], "monto") && rowContains(grid[i], santanderFlagMarker) {
			return i
		}
	}
	return -1
}

// extractMetadata recorre el encabezado informativo sobre la fila de
// títulos. Cada coincidencia sólo llena campos vacíos, salvo las variantes
// etiquetadas "fecha desde:"/"fecha hasta:", que siempre pisan su límite
// del período.
func (p *santanderProfile) extractMetadata(grid Grid, headerRow int) domain.CartolaMetadata {
	meta := domain.CartolaMetadata{Banco: p.DisplayName()}

	for i := 0; i < headerRow; i++ {
		label := normalizeText(grid.cellText(i, 0))

		switch {
		case strings.HasPrefix(label, "sr") && meta.Titular == "":
			meta.Titular = grid.cellText(i, 1)
		case strings.HasPrefix(label, "empresa") && meta.Titular == "":
			meta.Titular = grid.cellText(i, 1)
		}
		if strings.HasPrefix(label, "rut") && meta.Rut == "" {
			meta.Rut = grid.cellText(i, 1)
		}

		for j := range grid[i] {
			cell := normalizeText(grid.cellText(i, j))

			if strings.Contains(cell, "fecha desde") {
				if fecha, ok := p.dateAtOrAfter(grid, i, j); ok {
					if strings.Contains(cell, "fecha desde:") || meta.PeriodoDesde == "" {
						meta.PeriodoDesde = fecha
					}
				}
			}
			if strings.Contains(cell, "fecha hasta") {
				if fecha, ok := p.dateAtOrAfter(grid, i, j); ok {
					if strings.Contains(cell, "fecha hasta:") || meta.PeriodoHasta == "" {
						meta.PeriodoHasta = fecha
					}
				}
			}
		}
	}

	return meta
}

// dateAtOrAfter busca una fecha DD/MM/YYYY en la celda indicada o en la
// siguiente de la misma fila (los exports alternan entre "Fecha desde:
// 01/03/2025" en una celda y la fecha en la celda vecina).
func (p *santanderProfile) dateAtOrAfter(grid Grid, row, col int) (string, bool) {
	if fecha, ok := extractDate(grid.cellText(row, col)); ok {
		return fecha, true
	}
	return extractDate(grid.cellText(row, col+1))
}

// resolveColumns ubica cada columna conocida en la fila de encabezado por
// coincidencia normalizada exacta, de prefijo o de substring según el caso.
func (p *santanderProfile) resolveColumns(header []Cell) santanderColumns {
	cols := santanderColumns{
		fecha:       -1,
		descripcion: -1,
		monto:       -1,
		flag:        -1,
		documento:   -1,
		saldo:       -1,
		sucursal:    -1,
	}

	for idx, cell := range header {
		text := normalizeText(cell.Text())
		switch {
		case cols.monto == -1 && strings.HasPrefix(text, "monto"):
			cols.monto = idx
		case cols.descripcion == -1 && strings.Contains(text, "descripci"):
			cols.descripcion = idx
		case cols.fecha == -1 && strings.HasPrefix(text, "fecha"):
			cols.fecha = idx
		case cols.flag == -1 && strings.Contains(text, santanderFlagMarker):
			cols.flag = idx
		case cols.documento == -1 && strings.Contains(text, "documento"):
			cols.documento = idx
		case cols.saldo == -1 && strings.HasPrefix(text, "saldo"):
			cols.saldo = idx
		case cols.sucursal == -1 && strings.HasPrefix(text, "sucursal"):
			cols.sucursal = idx
		}
	}

	return cols
}
