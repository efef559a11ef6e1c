// Package numeric normaliza los campos numéricos que el backend envía con
// formas distintas: número plano, string numérico u objeto envoltorio
// {"$numberDecimal": "12.50"}. Ausente, nulo o no parseable vale 0.
package numeric

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// WrapperKey es la clave del objeto envoltorio decimal que usa el backend.
const WrapperKey = "$numberDecimal"

// Normalize convierte cualquier valor decodificado de JSON a float64.
// Nunca falla: lo que no se puede interpretar devuelve 0.
func Normalize(v any) float64 {
	return toDecimal(v).InexactFloat64()
}

// NormalizeDecimal es como Normalize pero conserva la precisión decimal
// (para sumas de dinero).
func NormalizeDecimal(v any) decimal.Decimal {
	return toDecimal(v)
}

func toDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return fromFloat(x)
	case float32:
		return fromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		return parse(string(x))
	case string:
		return parse(x)
	case decimal.Decimal:
		return x
	case Number:
		return x.d
	case *Number:
		if x == nil {
			return decimal.Zero
		}
		return x.d
	case map[string]any:
		return toDecimal(x[WrapperKey])
	default:
		return decimal.Zero
	}
}

func fromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

func parse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Number es un campo numérico tolerante para structs de respuesta del backend.
// El valor cero es 0.
type Number struct {
	d decimal.Decimal
}

// NewNumber construye un Number desde un float.
func NewNumber(f float64) Number { return Number{d: fromFloat(f)} }

// NewNumberFromDecimal construye un Number desde un decimal.
func NewNumberFromDecimal(d decimal.Decimal) Number { return Number{d: d} }

// Float devuelve el valor como float64.
func (n Number) Float() float64 { return n.d.InexactFloat64() }

// Decimal devuelve el valor con precisión decimal.
func (n Number) Decimal() decimal.Decimal { return n.d }

// Int devuelve la parte entera (cantidades, stock).
func (n Number) Int() int { return int(n.d.IntPart()) }

func (n Number) String() string { return n.d.String() }

// UnmarshalJSON acepta número, string, envoltorio o null. Los valores que no
// se pueden interpretar quedan en 0 sin devolver error.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		n.d = decimal.Zero
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		n.d = decimal.Zero
		return nil
	}
	n.d = toDecimal(v)
	return nil
}

// MarshalJSON emite siempre un número plano.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.d.String()), nil
}
