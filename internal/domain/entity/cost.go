package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos y recurrencias de costos operativos.
const (
	CostTypeFixed    = "fixed"
	CostTypeVariable = "variable"

	RecurrenceMonthly = "monthly"
)

// Cost costo operativo del espacio.
// Los costos con Recurrence "monthly" aplican a todos los meses; los que no
// tienen recurrencia se imputan al mes de DateIncurred.
type Cost struct {
	ID           string
	Name         string
	Amount       decimal.NullDecimal
	Type         string
	Recurrence   *string
	DateIncurred *time.Time
}

// IsMonthly indica si el costo se repite todos los meses.
func (c Cost) IsMonthly() bool {
	return c.Recurrence != nil && *c.Recurrence == RecurrenceMonthly
}
