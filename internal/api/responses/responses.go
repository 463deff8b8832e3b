// internal/api/responses/responses.go
package responses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// InitLogger inicializa el logger estructurado global de la aplicación.
// Se llama una sola vez desde main.
func InitLogger() {
	logger = zap.Must(zap.NewProduction())
}

// Log devuelve el logger de la aplicación.
func Log() *zap.Logger {
	return logger
}

// ErrorBody es el cuerpo JSON de toda respuesta de error de la API.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error responde con el código y mensaje indicados y deja registro del
// fallo. El detalle opcional va al cliente; úsalo sólo con información
// que el usuario pueda accionar.
func Error(c *gin.Context, status int, message string, details ...string) {
	body := ErrorBody{Error: message}
	if len(details) > 0 {
		body.Details = details[0]
	}

	logger.Warn("respuesta de error",
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
		zap.String("error", message),
	)

	c.JSON(status, body)
}
