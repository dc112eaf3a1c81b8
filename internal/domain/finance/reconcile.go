package finance

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/casaluarma/luarma-api/internal/domain/entity"
)

// Alias de campos en los arriendos, en orden de preferencia.
var (
	RentalDateAliases   = []string{"startDateTime", "start", "startDate", "date", "rentalDate", "createdAt"}
	RentalAmountAliases = []string{"amount", "price", "total"}
)

// Formatos de fecha aceptados cuando el valor viene como texto.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// RentalDate devuelve la fecha del arriendo según el primer alias presente.
// Si ningún alias está presente usa CreatedAt. Un primer valor presente que no
// se puede interpretar como fecha devuelve false; no se prueba el siguiente alias.
// Las fechas en texto sin zona horaria se interpretan en loc.
func RentalDate(r entity.Rental, loc *time.Location) (time.Time, bool) {
	if v, ok := firstPresent(r.Attrs, RentalDateAliases, true); ok {
		return ParseDate(v, loc)
	}
	if !r.CreatedAt.IsZero() {
		return r.CreatedAt, true
	}
	return time.Time{}, false
}

// RentalAmount devuelve el monto del arriendo según el primer alias no nulo,
// convertido con ToNumberOrZero. Sin alias presente devuelve 0.
func RentalAmount(r entity.Rental) decimal.Decimal {
	v, ok := firstPresent(r.Attrs, RentalAmountAliases, false)
	if !ok {
		return decimal.Zero
	}
	return ToNumberOrZero(v)
}

func firstPresent(attrs map[string]any, aliases []string, skipEmptyString bool) (any, bool) {
	for _, key := range aliases {
		v, ok := attrs[key]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && skipEmptyString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// ParseDate interpreta v como instante. Acepta time.Time, texto en los
// formatos de dateLayouts y números como milisegundos Unix.
func ParseDate(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, s, loc); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	case map[string]any:
		// Exportación extendida de Mongo: {"$date": ...}
		if inner, ok := t["$date"]; ok {
			return ParseDate(inner, loc)
		}
		return time.Time{}, false
	}

	ms, ok := toFloat(v)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(loc), true
}

// ToNumberOrZero convierte cualquier valor a decimal. Nulos, textos no
// numéricos, NaN e infinitos se convierten en cero.
func ToNumberOrZero(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero
		}
		return *n
	case decimal.NullDecimal:
		return OrZero(n)
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Zero
		}
		return d
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case int:
		return decimal.NewFromInt(int64(n))
	case int32:
		return decimal.NewFromInt32(n)
	case int64:
		return decimal.NewFromInt(n)
	}

	f, ok := toFloat(v)
	if !ok {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// OrZero devuelve el valor o cero si la columna es nula.
func OrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int8:
		f = float64(n)
	case int16:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint:
		f = float64(n)
	case uint8:
		f = float64(n)
	case uint16:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
