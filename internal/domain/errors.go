package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	// ErrUpstreamUnavailable: alguna de las tres fuentes no se pudo leer.
	// Es el único defecto que llega al cliente (502); el resto del pipeline
	// degrada a valores neutros en vez de abortar el cálculo.
	ErrUpstreamUnavailable = errors.New("fuente de datos no disponible")

	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
)
