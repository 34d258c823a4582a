package models

import "github.com/google/uuid"

// PurchaseItem is one aggregated line of a user's shopping list: an
// ingredient with its amount summed across every recipe in the cart.
type PurchaseItem struct {
	IngredientID    uuid.UUID `json:"ingredient_id" db:"ingredient_id"`
	Name            string    `json:"name" db:"name"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit"`
	Amount          int       `json:"amount" db:"amount"`
}
