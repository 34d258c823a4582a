package models

import "github.com/google/uuid"

// User is a registered account. Passwords are stored hashed; the plain value
// never reaches this struct.
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Username     string    `json:"username" db:"username" gorm:"type:varchar(150);not null;unique"`
	FirstName    string    `json:"first_name" db:"first_name" gorm:"type:varchar(150);not null"`
	LastName     string    `json:"last_name" db:"last_name" gorm:"type:varchar(150);not null"`
	Email        string    `json:"email" db:"email" gorm:"type:varchar(254);not null;unique"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
}
