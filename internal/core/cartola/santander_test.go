package cartola

import (
	"errors"
	"strings"
	"testing"
)

// santanderGrid arma la cartola Santander de prueba: título en la fila 0,
// encabezado informativo, fila de títulos en el índice 10 y un movimiento.
func santanderGrid() Grid {
	rows := [][]string{
		{"MOVIMIENTOS DE CUENTA CORRIENTE"},
		{"Sr.", "JUAN PÉREZ GONZÁLEZ"},
		{"RUT", "12.345.678-9"},
		{"Fecha desde: 01/03/2025"},
		{"Fecha hasta: 31/03/2025"},
		{},
		{},
		{},
		{},
		{},
		{"FECHA", "DESCRIPCIÓN", "MONTO", "CARGO/ABONO", "SALDO", "N° DOCUMENTO"},
		{"05/03/2025", "COMPRA TIENDA", "40,000", "C", "", "123456"},
		{},
		{},
		{},
		{},
		{},
		{},
		{},
		{},
	}
	return GridFromRows(rows)
}

func TestSantanderDetect(t *testing.T) {
	p := &santanderProfile{}

	t.Run("titulo y marcador presentes", func(t *testing.T) {
		if got := p.Detect(santanderGrid()); got < 0.95 {
			t.Errorf("Detect = %v, se esperaba >= 0.95", got)
		}
	})

	t.Run("solo titulo", func(t *testing.T) {
		rows := make([][]string, 12)
		rows[0] = []string{"Movimientos de Cuenta Corriente"}
		if got := (&santanderProfile{}).Detect(GridFromRows(rows)); got != 0.5 {
			t.Errorf("Detect = %v, se esperaba 0.5", got)
		}
	})

	t.Run("solo marcador cargo/abono", func(t *testing.T) {
		rows := make([][]string, 12)
		rows[3] = []string{"", "CARGO/ABONO"}
		if got := (&santanderProfile{}).Detect(GridFromRows(rows)); got != 0.45 {
			t.Errorf("Detect = %v, se esperaba 0.45", got)
		}
	})

	t.Run("menos de 12 filas nunca calza", func(t *testing.T) {
		grid := santanderGrid()[:11]
		if got := p.Detect(grid); got != 0 {
			t.Errorf("Detect con %d filas = %v, se esperaba 0", len(grid), got)
		}
	})
}

// Escenario completo: detección y preprocesamiento de una cartola con un
// movimiento de cargo.
func TestSantanderEndToEnd(t *testing.T) {
	grid := santanderGrid()

	detection, ok := DetectBank(grid)
	if !ok {
		t.Fatal("DetectBank no reconoció la cartola santander")
	}
	if detection.Profile.ID() != "santander" {
		t.Fatalf("se detectó %s, se esperaba santander", detection.Profile.ID())
	}
	if detection.Confidence < 0.95 {
		t.Errorf("confianza = %v, se esperaba >= 0.95", detection.Confidence)
	}

	result, err := detection.Profile.Preprocess(grid, 0)
	if err != nil {
		t.Fatalf("Preprocess falló: %v", err)
	}

	if len(result.Rows) != 1 {
		t.Fatalf("se esperaba 1 fila normalizada, hay %d", len(result.Rows))
	}

	row := result.Rows[0]
	want := map[string]string{
		"FECHA":       "2025-03-05",
		"DESCRIPCION": "COMPRA TIENDA",
		"MONTO":       "-40000",
		"REFERENCIA":  "123456",
	}
	for k, v := range want {
		if row[k] != v {
			t.Errorf("fila[%s] = %q, se esperaba %q", k, row[k], v)
		}
	}

	if result.ColumnMapping.Amount != "MONTO" || result.ColumnMapping.AmountDebit != "" || result.ColumnMapping.AmountCredit != "" {
		t.Errorf("el mapeo santander debe usar monto único con signo: %+v", result.ColumnMapping)
	}
	if result.ColumnMapping.Confidence != 1.0 {
		t.Errorf("confianza del mapeo = %v, se esperaba 1.0", result.ColumnMapping.Confidence)
	}
}

func TestSantanderSignCorrection(t *testing.T) {
	base := santanderGrid()

	preprocessRow := func(t *testing.T, monto, flag string) string {
		t.Helper()
		grid := make(Grid, len(base))
		copy(grid, base)
		grid[11] = GridFromRows([][]string{{"05/03/2025", "COMPRA", monto, flag, "", ""}})[0]

		result, err := (&santanderProfile{}).Preprocess(grid, 0)
		if err != nil {
			t.Fatalf("Preprocess falló: %v", err)
		}
		if len(result.Rows) != 1 {
			t.Fatalf("se esperaba 1 fila, hay %d", len(result.Rows))
		}
		return result.Rows[0]["MONTO"]
	}

	t.Run("flag C fuerza negativo", func(t *testing.T) {
		if got := preprocessRow(t, "40,000", "C"); got != "-40000" {
			t.Errorf("MONTO = %s, se esperaba -40000", got)
		}
	})

	t.Run("flag A fuerza positivo", func(t *testing.T) {
		if got := preprocessRow(t, "-1,500,000", "A"); got != "1500000" {
			t.Errorf("MONTO = %s, se esperaba 1500000", got)
		}
	})

	t.Run("monto ya negativo con flag C queda igual", func(t *testing.T) {
		if got := preprocessRow(t, "-40,000", "C"); got != "-40000" {
			t.Errorf("MONTO = %s, se esperaba -40000", got)
		}
	})
}

func TestSantanderReferenceClearing(t *testing.T) {
	base := santanderGrid()
	grid := make(Grid, len(base))
	copy(grid, base)
	grid[11] = GridFromRows([][]string{{"05/03/2025", "PAGO", "1,000", "A", "", "000000000"}})[0]

	result, err := (&santanderProfile{}).Preprocess(grid, 0)
	if err != nil {
		t.Fatalf("Preprocess falló: %v", err)
	}
	if got := result.Rows[0]["REFERENCIA"]; got != "" {
		t.Errorf("la referencia placeholder debe quedar vacía, se obtuvo %q", got)
	}
}

func TestSantanderDescriptionTruncation(t *testing.T) {
	base := santanderGrid()
	grid := make(Grid, len(base))
	copy(grid, base)
	long := strings.Repeat("X", 600)
	grid[11] = GridFromRows([][]string{{"05/03/2025", long, "1,000", "A", "", ""}})[0]

	result, err := (&santanderProfile{}).Preprocess(grid, 0)
	if err != nil {
		t.Fatalf("Preprocess falló: %v", err)
	}
	if got := len(result.Rows[0]["DESCRIPCION"]); got != santanderMaxDescription {
		t.Errorf("largo de descripción = %d, se esperaba %d", got, santanderMaxDescription)
	}
}

func TestSantanderMetadata(t *testing.T) {
	result, err := (&santanderProfile{}).Preprocess(santanderGrid(), 0)
	if err != nil {
		t.Fatalf("Preprocess falló: %v", err)
	}

	meta := result.Metadata
	if meta.Banco != "Banco Santander" {
		t.Errorf("Banco = %q", meta.Banco)
	}
	if meta.Titular != "JUAN PÉREZ GONZÁLEZ" {
		t.Errorf("Titular = %q", meta.Titular)
	}
	if meta.Rut != "12.345.678-9" {
		t.Errorf("Rut = %q", meta.Rut)
	}
	if meta.PeriodoDesde != "2025-03-01" || meta.PeriodoHasta != "2025-03-31" {
		t.Errorf("Período = %q a %q", meta.PeriodoDesde, meta.PeriodoHasta)
	}
}

func TestSantanderHeaderNotFound(t *testing.T) {
	// Cartola con título pero sin fila de encabezado MONTO/CARGO-ABONO.
	rows := make([][]string, 15)
	rows[0] = []string{"MOVIMIENTOS DE CUENTA CORRIENTE"}
	_, err := (&santanderProfile{}).Preprocess(GridFromRows(rows), 0)
	if !errors.Is(err, ErrHeaderNotFound) {
		t.Errorf("se esperaba ErrHeaderNotFound, se obtuvo %v", err)
	}
}

func TestSantanderSkipsBlankRows(t *testing.T) {
	result, err := (&santanderProfile{}).Preprocess(santanderGrid(), 0)
	if err != nil {
		t.Fatalf("Preprocess falló: %v", err)
	}
	// Las filas vacías que siguen al movimiento no deben aparecer.
	if len(result.Rows) != 1 {
		t.Errorf("se esperaba 1 fila, hay %d", len(result.Rows))
	}
}
