package entity

import "time"

// Class clase programada. Professor es el nombre visible, no una referencia.
type Class struct {
	ID          string
	Title       string
	ModalityID  string
	Modality    *Modality // resuelta por el repositorio (join de un nivel); nil si no existe
	Professor   string
	Schedule    time.Time
	SpaceID     string
	IsRecurring bool
}
