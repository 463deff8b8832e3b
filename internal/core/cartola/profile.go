// internal/core/cartola/profile.go
package cartola

import (
	"errors"

	"github.com/cmoralesv/importaCartolas/internal/domain"
)

// ErrHeaderNotFound se devuelve cuando un perfil ya fue elegido por el
// detector pero su búsqueda de fila de encabezado igual falla. Señala un
// archivo corrupto o un vacío en la heurística del perfil, y debe llegar
// al caller como falla explícita del archivo, nunca silenciarse.
var ErrHeaderNotFound = errors.New("fila de encabezado no encontrada")

// Profile es la estrategia de un banco: reconocer su formato en una grilla
// cruda y normalizarla al esquema de salida fijo de ese banco. Los perfiles
// son inmutables y sin estado; todas sus operaciones son funciones puras de
// la grilla de entrada.
type Profile interface {
	// ID identifica el perfil de forma estable ("santander", "bancochile").
	ID() string
	// DisplayName es el nombre del banco para mostrar al usuario.
	DisplayName() string
	// Detect puntúa entre 0 y 1 qué tan probable es que la grilla venga de
	// este banco.
	Detect(grid Grid) float64
	// Preprocess normaliza la grilla. fallbackYear completa fechas
	// parciales cuando el archivo no trae señal de año (0 usa el año
	// actual).
	Preprocess(grid Grid, fallbackYear int) (*domain.PreprocessResult, error)
}

// Detection es el perfil ganador de una detección y su puntaje.
type Detection struct {
	Profile    Profile
	Confidence float64
}

// detectThreshold es el puntaje mínimo para aceptar un perfil. Bajo eso el
// caller debe caer al importador genérico de formato desconocido.
const detectThreshold = 0.5

// profiles es la lista fija y ordenada de bancos soportados. No hay
// registro dinámico: agregar un banco es agregar su perfil aquí.
var profiles = []Profile{
	&santanderProfile{},
	&bancoChileProfile{},
}

// Profiles devuelve la lista registrada de perfiles, en orden.
func Profiles() []Profile {
	return profiles
}

// DetectBank corre Detect de cada perfil registrado y devuelve el de mayor
// confianza si supera el umbral de aceptación. Los empates los gana el
// perfil registrado primero. El segundo valor es false cuando ningún
// perfil alcanza el umbral; eso no es un error, es "formato desconocido".
func DetectBank(grid Grid) (Detection, bool) {
	var best Detection
	for _, p := range profiles {
		score := p.Detect(grid)
		if score > best.Confidence {
			best = Detection{Profile: p, Confidence: score}
		}
	}
	if best.Confidence < detectThreshold {
		return Detection{}, false
	}
	return best, true
}
