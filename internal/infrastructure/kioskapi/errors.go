package kioskapi

import (
	"fmt"
	"net/http"

	"github.com/jhoicas/millet-kiosk/internal/domain"
)

// APIError respuesta no-2xx del backend. Message es el texto del cuerpo
// ({message} o {msg}) o el mensaje genérico.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("kioskapi: HTTP %d: %s", e.Status, e.Message)
}

// UserMessage texto del backend para mostrar al usuario.
func (e *APIError) UserMessage() string { return e.Message }

// Is permite errors.Is(err, domain.ErrUnauthorized) para 401/403 y
// errors.Is(err, domain.ErrNotFound) para 404.
func (e *APIError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}
