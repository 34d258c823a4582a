package database

import (
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db}
}

// Add inserts a favorite row. A concurrent duplicate insert fails on the
// unique index and surfaces as a duplicate key error.
func (r *FavoriteRepo) Add(userID, recipeID uuid.UUID) error {
	return r.db.Create(&models.Favorite{UserID: userID, RecipeID: recipeID}).Error
}

// Remove deletes the pair row and reports whether one existed
func (r *FavoriteRepo) Remove(userID, recipeID uuid.UUID) (bool, error) {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	return res.RowsAffected > 0, res.Error
}

// Exists reports whether the user has favorited the recipe
func (r *FavoriteRepo) Exists(userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

// Flags returns which of the given recipes the user has favorited
func (r *FavoriteRepo) Flags(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	flags := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return flags, nil
	}

	var marked []uuid.UUID
	err := r.db.Model(&models.Favorite{}).
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
