package database

import (
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeFilter narrows a recipe listing. Nil/empty members are no-ops.
// FavoritedBy and InCartOf hold the authenticated caller's id when the
// corresponding boolean query flag is set; for anonymous callers the handler
// leaves them nil, making the flags no-ops.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Limit       int
	Offset      int
}

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db}
}

func (r *RecipeRepo) preloaded() *gorm.DB {
	return r.db.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient")
}

// FindByID returns a recipe with its author, tags and ingredient rows
func (r *RecipeRepo) FindByID(id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.preloaded().First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// applyFilter adds the filter's conditions to a recipes query, without paging
func (r *RecipeRepo) applyFilter(q *gorm.DB, filter RecipeFilter) *gorm.DB {
	if filter.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *filter.AuthorID)
	}

	// OR semantics over slugs: a recipe matches when it carries at least one
	// of the given tags.
	if len(filter.TagSlugs) > 0 {
		q = q.
			Joins("JOIN recipe_tags rt ON rt.recipe_id = recipes.id").
			Joins("JOIN tags t ON t.id = rt.tag_id").
			Where("t.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}

	if filter.FavoritedBy != nil {
		favorited := r.db.Model(&models.Favorite{}).
			Select("recipe_id").Where("user_id = ?", *filter.FavoritedBy)
		q = q.Where("recipes.id IN (?)", favorited)
	}

	if filter.InCartOf != nil {
		inCart := r.db.Model(&models.ShoppingCartItem{}).
			Select("recipe_id").Where("user_id = ?", *filter.InCartOf)
		q = q.Where("recipes.id IN (?)", inCart)
	}

	return q
}

// FindAll returns recipes matching the filter, newest first
func (r *RecipeRepo) FindAll(filter RecipeFilter) ([]*models.Recipe, error) {
	q := r.applyFilter(r.preloaded().Model(&models.Recipe{}), filter)

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var recipes []*models.Recipe
	err := q.Order("recipes.created_at DESC, recipes.id").Find(&recipes).Error
	return recipes, err
}

// Count returns how many recipes match the filter regardless of paging
func (r *RecipeRepo) Count(filter RecipeFilter) (int64, error) {
	q := r.applyFilter(r.db.Model(&models.Recipe{}), filter)

	var count int64
	err := q.Distinct("recipes.id").Count(&count).Error
	return count, err
}

// Add inserts a recipe with its tag links and ingredient rows in one
// transaction
func (r *RecipeRepo) Add(recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Ingredients", "Author").Create(recipe).Error; err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Append(&tags); err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = recipe.ID
		}
		return tx.Create(&ingredients).Error
	})
}

// Update rewrites the recipe row and replaces its tag and ingredient sets
func (r *RecipeRepo) Update(recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         recipe.Name,
			"text":         recipe.Text,
			"image":        recipe.Image,
			"cooking_time": recipe.CookingTime,
		}
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Model(recipe).Association("Tags").Replace(&tags); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = recipe.ID
		}
		return tx.Create(&ingredients).Error
	})
}

// Delete removes a recipe and its dependent rows in one transaction
func (r *RecipeRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ShortByAuthor returns the author's recipes without relations, newest first.
// limit <= 0 means no limit.
func (r *RecipeRepo) ShortByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
	q := r.db.Where("author_id = ?", authorID).Order("created_at DESC, id")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recipes []*models.Recipe
	err := q.Find(&recipes).Error
	return recipes, err
}

// CountByAuthor returns how many recipes the author owns
func (r *RecipeRepo) CountByAuthor(authorID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}
