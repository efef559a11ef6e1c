package domain

import (
	"context"
	"errors"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("sesión no válida o expirada")
	ErrForbidden    = errors.New("acceso denegado")
	ErrUnavailable  = errors.New("no se pudo contactar al servidor")
	ErrMalformed    = errors.New("respuesta inesperada del servidor")
	ErrEmptyCart    = errors.New("el carrito está vacío")
)

// GenericMessage texto mostrado cuando el backend no envía un mensaje propio.
const GenericMessage = "Ocurrió un error inesperado"

// userMessager lo implementan los errores que traen un texto apto para el usuario
// (por ejemplo, el mensaje que devuelve el backend).
type userMessager interface {
	UserMessage() string
}

// UserMessage traduce cualquier error a un texto corto para mostrar en línea
// o en un banner. Nunca devuelve vacío para un error no nulo.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if m := um.UserMessage(); m != "" {
			return m
		}
	}
	for _, known := range []error{ErrUnavailable, ErrMalformed, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrInvalidInput, ErrEmptyCart} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "la solicitud fue cancelada"
	}
	return GenericMessage
}

// ValidationError entrada rechazada antes de llegar al backend. Se compara
// como ErrInvalidInput y su texto se muestra tal cual.
type ValidationError struct {
	Msg string
}

// Invalid construye un ValidationError.
func Invalid(msg string) error { return &ValidationError{Msg: msg} }

func (e *ValidationError) Error() string       { return e.Msg }
func (e *ValidationError) UserMessage() string { return e.Msg }
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
