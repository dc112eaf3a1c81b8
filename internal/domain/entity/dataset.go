package entity

// Dataset agrupa las colecciones completas del negocio, tal como se importan
// o exportan en bloque.
type Dataset struct {
	Modalities []*Modality
	Classes    []*Class
	Payments   []*Payment
	Rentals    []*Rental
	Costs      []*Cost
}
