package entity

import "github.com/shopspring/decimal"

// Modality tipo de clase con precio por sesión para el alumno y pago por sesión al profesor.
type Modality struct {
	ID         string
	Name       string
	Price      decimal.NullDecimal
	TeacherPay decimal.NullDecimal
}
