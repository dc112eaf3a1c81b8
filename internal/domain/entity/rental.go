package entity

import "time"

// Rental arriendo de una sala.
//
// Attrs conserva los atributos crudos del documento exportado: la fecha y el
// monto pueden venir bajo distintos nombres según la época en que se guardó
// el registro. La resolución de esos alias vive en el paquete finance.
type Rental struct {
	ID           string
	SpaceID      string
	TenantName   string
	ActivityName string
	Hours        float64
	CreatedAt    time.Time
	Attrs        map[string]any
}
