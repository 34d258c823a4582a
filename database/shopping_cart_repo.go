package database

import (
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShoppingCartRepo struct {
	db *gorm.DB
}

func NewShoppingCartRepo(db *gorm.DB) *ShoppingCartRepo {
	return &ShoppingCartRepo{db}
}

// Add queues a recipe in the user's cart. Duplicates fail on the unique index.
func (r *ShoppingCartRepo) Add(userID, recipeID uuid.UUID) error {
	return r.db.Create(&models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}).Error
}

// Remove deletes the pair row and reports whether one existed
func (r *ShoppingCartRepo) Remove(userID, recipeID uuid.UUID) (bool, error) {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCartItem{})
	return res.RowsAffected > 0, res.Error
}

// Exists reports whether the recipe is queued in the user's cart
func (r *ShoppingCartRepo) Exists(userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Flags returns which of the given recipes sit in the user's cart
func (r *ShoppingCartRepo) Flags(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	flags := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return flags, nil
	}

	var marked []uuid.UUID
	err := r.db.Model(&models.ShoppingCartItem{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &marked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range marked {
		flags[id] = true
	}
	return flags, nil
}

// CartIngredients returns the ingredient rows of every recipe in the user's
// cart with their reference data loaded. Summation happens in
// services.AggregatePurchases so it stays a pure function of these rows.
func (r *ShoppingCartRepo) CartIngredients(userID uuid.UUID) ([]models.RecipeIngredient, error) {
	cartRecipes := r.db.Model(&models.ShoppingCartItem{}).
		Select("recipe_id").Where("user_id = ?", userID)

	var rows []models.RecipeIngredient
	err := r.db.Preload("Ingredient").
		Where("recipe_id IN (?)", cartRecipes).
		Find(&rows).Error
	return rows, err
}
