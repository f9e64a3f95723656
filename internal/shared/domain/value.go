package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ValueKind etiqueta el tipo de un valor de criterio.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindText
	KindNumber
	KindDate
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	default:
		return "null"
	}
}

// DateLayout es el formato con el que se renderizan las fechas en los predicados.
const DateLayout = "2006-01-02 15:04:05"

// Value es el valor etiquetado de un criterio (texto, número, fecha o nulo).
// El valor cero es Null.
type Value struct {
	kind   ValueKind
	text   string
	number decimal.Decimal
	date   time.Time
}

func Null() Value { return Value{} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Number(d decimal.Decimal) Value { return Value{kind: KindNumber, number: d} }

func Int(n int64) Value { return Number(decimal.NewFromInt(n)) }

func Date(t time.Time) Value { return Value{kind: KindDate, date: t} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Text() (string, bool) { return v.text, v.kind == KindText }

func (v Value) Number() (decimal.Decimal, bool) { return v.number, v.kind == KindNumber }

func (v Value) Date() (time.Time, bool) { return v.date, v.kind == KindDate }

// String devuelve una representación legible, pensada para logs y mensajes de error.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return v.number.String()
	case KindDate:
		return v.date.Format(DateLayout)
	default:
		return "null"
	}
}

// ---------------- Formas compuestas ----------------

var (
	errNotText        = errors.New("value must be text")
	errRangeArity     = errors.New("value must contain exactly two comma-separated values (from, to)")
	errEmptyList      = errors.New("value must be a non-empty comma-separated list")
	errEmptyListEntry = errors.New("value list contains an empty entry")
)

// RangeBounds interpreta el valor de un "between": exactamente dos elementos separados por coma.
func (v Value) RangeBounds() (from, to string, err error) {
	s, ok := v.Text()
	if !ok {
		return "", "", errNotText
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return "", "", errRangeArity
	}
	from, to = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if from == "" || to == "" {
		return "", "", errRangeArity
	}
	return from, to, nil
}

// ListItems interpreta el valor de un "in": lista separada por comas, con o sin paréntesis
// y con o sin comillas alrededor de cada elemento.
func (v Value) ListItems() ([]string, error) {
	s, ok := v.Text()
	if !ok {
		return nil, errNotText
	}
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	if strings.TrimSpace(s) == "" {
		return nil, errEmptyList
	}

	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		item := unquote(strings.TrimSpace(p))
		if item == "" {
			return nil, errEmptyListEntry
		}
		items = append(items, item)
	}
	return items, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// ---------------- JSON ----------------

// UnmarshalJSON acepta null, cadenas y números. Booleanos, objetos y arrays se rechazan:
// no hay coerción implícita de tipos.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Null()
		return nil
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case c == '-' || (c >= '0' && c <= '9'):
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			return fmt.Errorf("invalid numeric criterion value %s: %w", data, err)
		}
		*v = Number(d)
		return nil
	default:
		return fmt.Errorf("unsupported criterion value %s: expected string, number or null", data)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return []byte(v.number.String()), nil
	case KindDate:
		return json.Marshal(v.date.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}
