// internal/core/reader/reader.go
package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/cmoralesv/importaCartolas/internal/core/cartola"
)

// ReadGrid convierte un archivo subido en la grilla cruda que consume el
// motor de cartolas. Soporta .xlsx, .xls antiguo y .csv; el contenido no
// se interpreta aquí, sólo se extraen las celdas.
func ReadGrid(file io.Reader, filename string) (cartola.Grid, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".xlsx":
		return readXLSX(file)
	case ".xls":
		return readXLS(file)
	case ".csv":
		return readCSV(file)
	default:
		return nil, fmt.Errorf("formato de archivo no soportado: %s", ext)
	}
}

func readXLSX(file io.Reader) (cartola.Grid, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("error al abrir planilla xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("la planilla no tiene hojas")
	}

	// Las cartolas llegan siempre en la primera hoja.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error al leer filas de la planilla: %w", err)
	}

	return cartola.GridFromRows(rows), nil
}

func readXLS(file io.Reader) (cartola.Grid, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Algunos bancos nombran .xls archivos que en realidad son xlsx.
		if _, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			return readXLSX(bytes.NewReader(data))
		}
		return nil, fmt.Errorf("error al abrir planilla xls: %w", err)
	}

	var rows [][]string
	for _, sheet := range workbook.GetSheets() {
		for _, row := range sheet.GetRows() {
			var cells []string
			for _, cell := range row.GetCols() {
				cells = append(cells, cell.GetString())
			}
			rows = append(rows, cells)
		}
	}

	return cartola.GridFromRows(rows), nil
}

func readCSV(file io.Reader) (cartola.Grid, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	// Los exports bancarios antiguos vienen en Latin-1; los nuevos en UTF-8.
	if !utf8.Valid(data) {
		decoder := charmap.ISO8859_1.NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return nil, fmt.Errorf("error al decodificar csv: %w", err)
		}
		data = decoded
	}

	records, err := parseCSV(data, ';')
	if err != nil || maxColumns(records) <= 1 {
		// Reintento con coma: hay bancos que exportan con uno u otro.
		if retried, errC := parseCSV(data, ','); errC == nil {
			records = retried
		} else if err != nil {
			return nil, fmt.Errorf("error al leer csv: %w", err)
		}
	}

	return cartola.GridFromRows(records), nil
}

func parseCSV(data []byte, comma rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func maxColumns(records [][]string) int {
	max := 0
	for _, r := range records {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}
