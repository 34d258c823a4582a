package api

import (
	"github.com/foodgram-project/backend/database"
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
)

// Store interfaces consumed by the handlers, satisfied by the database repos.

type userStore interface {
	Add(user *models.User) error
	FindByID(id uuid.UUID) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindAll(limit, offset int) ([]*models.User, error)
	UpdatePassword(id uuid.UUID, passwordHash string) error
	Delete(id uuid.UUID) error
}

type tagStore interface {
	FindAll() ([]*models.Tag, error)
	FindByID(id uuid.UUID) (*models.Tag, error)
	FindByIDs(ids []uuid.UUID) ([]models.Tag, error)
}

type ingredientStore interface {
	Search(namePrefix string) ([]*models.Ingredient, error)
	FindByID(id uuid.UUID) (*models.Ingredient, error)
	FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error)
}

type recipeStore interface {
	FindByID(id uuid.UUID) (*models.Recipe, error)
	FindAll(filter database.RecipeFilter) ([]*models.Recipe, error)
	Count(filter database.RecipeFilter) (int64, error)
	Add(recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error
	Update(recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error
	Delete(id uuid.UUID) error
	ShortByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error)
	CountByAuthor(authorID uuid.UUID) (int64, error)
}

// recipeListStore is the two-state machine behind favorites and cart items
type recipeListStore interface {
	Add(userID, recipeID uuid.UUID) error
	Remove(userID, recipeID uuid.UUID) (bool, error)
	Exists(userID, recipeID uuid.UUID) (bool, error)
	Flags(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type shoppingCartStore interface {
	recipeListStore
	CartIngredients(userID uuid.UUID) ([]models.RecipeIngredient, error)
}

type subscriptionStore interface {
	Add(followerID, authorID uuid.UUID) error
	Remove(followerID, authorID uuid.UUID) (bool, error)
	Exists(followerID, authorID uuid.UUID) (bool, error)
	Authors(followerID uuid.UUID, limit, offset int) ([]*models.User, error)
	Flags(followerID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}
