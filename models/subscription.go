package models

import "github.com/google/uuid"

// Subscription is a directed follow from one user to an author. A user never
// follows themself; the check lives in validation and the pair uniqueness in
// the store index.
type Subscription struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id" gorm:"type:uuid;not null;index:idx_subscription_follower;uniqueIndex:idx_subscription_unique"`
	AuthorID   uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscription_unique"`

	Follower User `json:"follower,omitempty" gorm:"foreignKey:FollowerID;references:ID;constraint:OnDelete:CASCADE"`
	Author   User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
}
