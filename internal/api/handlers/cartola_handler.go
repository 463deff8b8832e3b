// internal/api/handlers/cartola_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cmoralesv/importaCartolas/internal/api/responses"
	"github.com/cmoralesv/importaCartolas/internal/core/cartola"
	"github.com/cmoralesv/importaCartolas/internal/core/reader"
)

// CartolaHandler atiende la detección y el preprocesamiento de cartolas
// bancarias subidas por el usuario.
type CartolaHandler struct{}

func NewCartolaHandler() *CartolaHandler {
	return &CartolaHandler{}
}

// HandleDetect recibe una cartola y responde qué banco la generó, si
// alguno de los perfiles registrados la reconoce.
func (h *CartolaHandler) HandleDetect(c *gin.Context) {
	grid, ok := h.readUploadedGrid(c)
	if !ok {
		return
	}

	detection, found := cartola.DetectBank(grid)
	if !found {
		c.JSON(http.StatusOK, gin.H{"detectado": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detectado": true,
		"bancoId":   detection.Profile.ID(),
		"banco":     detection.Profile.DisplayName(),
		"confianza": detection.Confidence,
	})
}

// HandlePreprocess recibe una cartola, detecta el banco y entrega las
// filas normalizadas con su mapeo de columnas. Si ningún perfil reconoce
// el formato responde con la sugerencia del mapeador genérico para que el
// frontend caiga al importador de formato desconocido.
func (h *CartolaHandler) HandlePreprocess(c *gin.Context) {
	grid, ok := h.readUploadedGrid(c)
	if !ok {
		return
	}

	// Año de respaldo para completar fechas parciales cuando la cartola no
	// trae señal de año. Campo opcional del formulario.
	fallbackYear := 0
	if v := c.PostForm("fallbackYear"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			responses.Error(c, http.StatusBadRequest, "fallbackYear debe ser un año numérico")
			return
		}
		fallbackYear = parsed
	}

	detection, found := cartola.DetectBank(grid)
	if !found {
		payload := gin.H{"detectado": false}
		if guess, ok := cartola.GuessColumnMapping(grid); ok {
			payload["sugerencia"] = guess
		}
		c.JSON(http.StatusOK, payload)
		return
	}

	result, err := detection.Profile.Preprocess(grid, fallbackYear)
	if err != nil {
		if errors.Is(err, cartola.ErrHeaderNotFound) {
			// El detector aceptó el archivo pero el perfil no encontró su
			// encabezado: archivo corrupto o heurística del perfil con un
			// vacío. Queda registrado para mantención del perfil.
			responses.Log().Error("detección y preprocesamiento inconsistentes",
				zap.String("banco", detection.Profile.ID()),
				zap.Float64("confianza", detection.Confidence),
				zap.Error(err),
			)
			responses.Error(c, http.StatusUnprocessableEntity, "No se pudo ubicar la tabla de movimientos en la cartola", err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Error al preprocesar la cartola", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"detectado": true,
		"bancoId":   detection.Profile.ID(),
		"confianza": detection.Confidence,
		"resultado": result,
	})
}

// readUploadedGrid abre el archivo del formulario y lo convierte en grilla.
// Responde el error al cliente y devuelve false si algo falla.
func (h *CartolaHandler) readUploadedGrid(c *gin.Context) (cartola.Grid, bool) {
	fileHeader, err := c.FormFile("cartolaFile")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Archivo de cartola no encontrado o inválido")
		return nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "No se pudo abrir el archivo de cartola")
		return nil, false
	}
	defer file.Close()

	grid, err := reader.ReadGrid(file, fileHeader.Filename)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "No se pudo leer el archivo de cartola", err.Error())
		return nil, false
	}

	return grid, true
}
