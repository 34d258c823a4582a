package models

import "github.com/google/uuid"

// Tag is a labeled category attachable to recipes. Reference data: ordinary
// callers read tags, only an operator writes them.
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name  string    `json:"name" db:"name" gorm:"type:varchar(200);not null"`
	Color string    `json:"color" db:"color" gorm:"type:varchar(7);not null"`
	Slug  string    `json:"slug" db:"slug" gorm:"type:varchar(200);not null;unique"`
}
