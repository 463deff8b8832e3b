// internal/domain/cartola.go
package domain

// CartolaMetadata contiene los datos extraídos del encabezado informativo
// que los bancos imprimen antes de la tabla de movimientos. Cualquier campo
// puede venir vacío: la ausencia de un dato nunca es un error.
type CartolaMetadata struct {
	Banco        string `json:"banco"`
	Titular      string `json:"titular,omitempty"`
	Rut          string `json:"rut,omitempty"`
	PeriodoDesde string `json:"periodoDesde,omitempty"` // YYYY-MM-DD
	PeriodoHasta string `json:"periodoHasta,omitempty"` // YYYY-MM-DD
	AnioInferido int    `json:"anioInferido,omitempty"`
}

// ColumnMapping declara qué columna del resultado normalizado contiene cada
// campo semántico que consume el pipeline genérico de importación.
//
// Invariante: se llena Amount (monto único con signo) o el par
// AmountDebit/AmountCredit, nunca ambas formas a la vez. Los mapeos
// producidos por un perfil de banco llevan Confidence 1.0; el mapeador
// heurístico genérico siempre entrega menos que eso.
//
// Los nombres JSON son contrato con el importador: cambiarlos rompe el
// pipeline y requiere versionar el esquema.
type ColumnMapping struct {
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Amount       string  `json:"amount,omitempty"`
	AmountDebit  string  `json:"amountDebit,omitempty"`
	AmountCredit string  `json:"amountCredit,omitempty"`
	Reference    string  `json:"reference,omitempty"`
	Confidence   float64 `json:"confidence"`
}

// PreprocessResult es la única salida visible del motor de cartolas: los
// encabezados del esquema fijo del banco, las filas normalizadas (mapa
// encabezado → valor en texto), los metadatos del archivo y el mapeo de
// columnas. Se construye una vez por preprocesamiento exitoso y no se
// muta después.
type PreprocessResult struct {
	Headers       []string            `json:"headers"`
	Rows          []map[string]string `json:"rows"`
	Metadata      CartolaMetadata     `json:"metadata"`
	ColumnMapping ColumnMapping       `json:"columnMapping"`
}
