package services

import "errors"

// Errores del flujo de análisis. Los controladores los traducen a
// códigos HTTP; el detalle del proveedor nunca llega al usuario final.
var (
	ErrEmptyMessage       = errors.New("mensaje vacío")
	ErrInputTooLarge      = errors.New("mensaje demasiado largo")
	ErrPayloadTooLarge    = errors.New("archivo de audio demasiado grande")
	ErrExternalCall       = errors.New("fallo en el proveedor de IA")
	ErrEmptyTranscription = errors.New("no se pudo transcribir el audio")
)
