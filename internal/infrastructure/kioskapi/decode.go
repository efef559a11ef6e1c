package kioskapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/millet-kiosk/internal/domain"
)

// decodeList acepta un arreglo plano o un objeto con el arreglo bajo field
// ({"products": [...]}). Un objeto sin el campo equivale a lista vacía.
func decodeList[T any](body []byte, field string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: cuerpo vacío", domain.ErrMalformed)
	}
	var out []T
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
		}
		raw, ok := obj[field]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return []T{}, nil
		}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformed, field, err)
		}
	default:
		return nil, fmt.Errorf("%w: se esperaba arreglo u objeto", domain.ErrMalformed)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// decodeObject acepta el objeto plano o envuelto bajo field ({"order": {...}}).
func decodeObject[T any](body []byte, field string) (*T, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	raw := json.RawMessage(body)
	if inner, ok := obj[field]; ok {
		raw = inner
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformed, err)
	}
	return &out, nil
}

// errorMessage extrae {message} o {msg} del cuerpo de error.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if m := strings.TrimSpace(payload.Message); m != "" {
			return m
		}
		if m := strings.TrimSpace(payload.Msg); m != "" {
			return m
		}
	}
	return domain.GenericMessage
}

// wireTime fecha tolerante: un formato desconocido queda en cero.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Time = time.Time{}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
