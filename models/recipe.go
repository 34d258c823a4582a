package models

import (
	"time"

	"github.com/google/uuid"
)

// Recipe is owned by its author; deleting the author deletes the recipe.
type Recipe struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	AuthorID    uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index:idx_recipe_author"`
	Name        string    `json:"name" db:"name" gorm:"type:varchar(200);not null"`
	Text        string    `json:"text" db:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" db:"image" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" db:"cooking_time" gorm:"type:integer;not null"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Author      User               `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;references:ID;constraint:OnDelete:CASCADE"`
}

// RecipeIngredient joins a recipe to an ingredient with a per-recipe amount.
// An ingredient cannot appear twice in one recipe.
type RecipeIngredient struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	RecipeID     uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;index:idx_recipe_ingredient_recipe;uniqueIndex:idx_recipe_ingredient_unique"`
	IngredientID uuid.UUID `json:"ingredient_id" db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_unique"`
	Amount       int       `json:"amount" db:"amount" gorm:"type:integer;not null"`

	Ingredient Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID;constraint:OnDelete:CASCADE"`
}
