// Package finance reúne las reglas puras del cierre mensual: la ventana del
// mes consultado y la conciliación de campos heredados de los registros.
package finance

import (
	"strconv"
	"strings"
	"time"
)

// MonthWindow intervalo semiabierto [Start, End) de un mes calendario.
type MonthWindow struct {
	Month int
	Year  int
	Start time.Time
	End   time.Time
}

// Contains indica si t cae dentro de la ventana (Start <= t < End).
func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveMonthWindow convierte los parámetros month/year de la consulta en la
// ventana del mes. Si un valor no es entero o es 0 se usa el componente de now.
//
// No se valida el rango del mes: month=13 se conserva tal cual y la ventana
// corresponde a enero del año siguiente.
func ResolveMonthWindow(monthInput, yearInput string, now time.Time) MonthWindow {
	month := parseIntOr(monthInput, int(now.Month()))
	year := parseIntOr(yearInput, now.Year())

	loc := now.Location()
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, loc)

	return MonthWindow{Month: month, Year: year, Start: start, End: end}
}

func parseIntOr(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return def
	}
	return n
}
