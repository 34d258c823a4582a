package validation

import (
	"unicode"

	"github.com/foodgram-project/backend/errs"
	"github.com/google/uuid"
)

const (
	MinIngredientAmount = 1
	MaxIngredientAmount = 2000
)

// IngredientRef is one ingredient row of a recipe payload.
type IngredientRef struct {
	ID     uuid.UUID
	Amount int
}

// RecipePayload holds the cross-field inputs of a recipe create or update.
// Image is only mandatory on create; an update keeps the stored image when
// the field is omitted.
type RecipePayload struct {
	Name         string
	Text         string
	Image        string
	CookingTime  int
	TagIDs       []uuid.UUID
	Ingredients  []IngredientRef
	RequireImage bool
}

// ValidateRecipe applies the field and cross-field rules of a recipe payload.
// Ingredient existence is a store concern and checked by the caller.
func ValidateRecipe(p RecipePayload) *errs.ApiErr {
	if err := ValidateRecipeName(p.Name); err != nil {
		return err
	}

	if p.Text == "" {
		return errs.NewMissingRequiredFieldError("text")
	}

	if p.RequireImage && p.Image == "" {
		return errs.NewMissingRequiredFieldError("image")
	}

	if p.CookingTime < 1 {
		return errs.NewValidationError("cooking_time", "cooking time must be a positive number of minutes")
	}

	if len(p.TagIDs) == 0 {
		return errs.NewValidationError("tags", "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(p.TagIDs))
	for _, id := range p.TagIDs {
		if _, ok := seenTags[id]; ok {
			return errs.NewValidationError("tags", "tags must be unique")
		}
		seenTags[id] = struct{}{}
	}

	if len(p.Ingredients) == 0 {
		return errs.NewValidationError("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(p.Ingredients))
	for _, ing := range p.Ingredients {
		if _, ok := seenIngredients[ing.ID]; ok {
			return errs.NewValidationError("ingredients", "ingredients must be unique")
		}
		seenIngredients[ing.ID] = struct{}{}

		if err := ValidateIngredientAmount(ing.Amount); err != nil {
			return err
		}
	}

	return nil
}

// ValidateRecipeName rejects names made of digits and punctuation only; a
// name must contain at least one letter.
func ValidateRecipeName(name string) *errs.ApiErr {
	if name == "" {
		return errs.NewMissingRequiredFieldError("name")
	}
	for _, r := range name {
		if unicode.IsLetter(r) {
			return nil
		}
	}
	return errs.NewValidationError("name", "name must contain at least one letter")
}

func ValidateIngredientAmount(amount int) *errs.ApiErr {
	if amount < MinIngredientAmount || amount > MaxIngredientAmount {
		return errs.NewValidationError("amount", "ingredient amount must be between 1 and 2000")
	}
	return nil
}
