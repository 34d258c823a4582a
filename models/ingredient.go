package models

import "github.com/google/uuid"

// Ingredient is reference data bulk-loaded from a CSV dataset. The same name
// may appear with different measurement units, so uniqueness is on the pair.
type Ingredient struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name            string    `json:"name" db:"name" gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit" gorm:"type:varchar(200);not null;uniqueIndex:idx_ingredient_name_unit"`
}
