package database

import (
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// Add inserts a new user into the database
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID returns a user by id
func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll returns users ordered by username
func (r *UserRepo) FindAll(limit, offset int) ([]*models.User, error) {
	var users []*models.User
	err := r.db.Order("username asc").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

// UpdatePassword stores a new password hash for the user
func (r *UserRepo) UpdatePassword(id uuid.UUID, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).
		Update("password_hash", passwordHash).Error
}

// Delete removes the user and everything they own inside one transaction:
// subscriptions in both directions, favorites and cart rows of the user,
// dependent rows of the user's recipes, the recipes themselves, and finally
// the account row.
func (r *UserRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("follower_id = ? OR author_id = ?", id, id).
			Delete(&models.Subscription{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}

		ownedRecipes := tx.Model(&models.Recipe{}).Select("id").Where("author_id = ?", id)
		if err := tx.Where("recipe_id IN (?)", ownedRecipes).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id IN (?)", ownedRecipes).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id IN (?)", ownedRecipes).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN (?)", ownedRecipes).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&models.Recipe{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.User{}, "id = ?", id).Error
	})
}
