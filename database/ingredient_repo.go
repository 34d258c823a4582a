package database

import (
	"strings"

	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db}
}

// likePrefixPattern builds a LIKE pattern anchored at the start of the value.
// LIKE metacharacters in the prefix are escaped so "100%" matches the literal
// name, not everything starting with "100". Pairs with ESCAPE '\'.
func likePrefixPattern(prefix string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return escaper.Replace(prefix) + "%"
}

// Search returns ingredients whose name starts with the given prefix,
// case-insensitively, ordered by name. An empty prefix lists everything.
func (r *IngredientRepo) Search(namePrefix string) ([]*models.Ingredient, error) {
	var ingredients []*models.Ingredient
	q := r.db.Order("lower(name) asc, measurement_unit asc")
	if namePrefix != "" {
		q = q.Where(`lower(name) LIKE lower(?) ESCAPE '\'`, likePrefixPattern(namePrefix))
	}
	err := q.Find(&ingredients).Error
	return ingredients, err
}

// FindByID returns an ingredient by its ID
func (r *IngredientRepo) FindByID(id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// FindByIDs returns the ingredients matching the given ids
func (r *IngredientRepo) FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.Where("id IN ?", ids).Find(&ingredients).Error
	return ingredients, err
}

// GetOrCreate inserts the (name, unit) pair unless it already exists and
// reports whether a row was created. The ON CONFLICT clause keeps a re-import
// of an existing pair a no-op instead of an error.
func (r *IngredientRepo) GetOrCreate(name, measurementUnit string) (*models.Ingredient, bool, error) {
	ingredient := models.Ingredient{Name: name, MeasurementUnit: measurementUnit}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
		DoNothing: true,
	}).Create(&ingredient)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return &ingredient, true, nil
	}

	var existing models.Ingredient
	err := r.db.First(&existing, "name = ? AND measurement_unit = ?", name, measurementUnit).Error
	if err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}
