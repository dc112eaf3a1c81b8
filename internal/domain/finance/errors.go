package finance

import "errors"

var (
	ErrSummaryFailed = errors.New("no se pudo generar el resumen financiero")
	ErrPayoutsFailed = errors.New("no se pudo calcular el pago a profesores")
)
