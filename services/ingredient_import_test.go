package services

import (
	"strings"
	"testing"

	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeIngredientRepo records (name, unit) pairs in memory.
type fakeIngredientRepo struct {
	seen map[string]*models.Ingredient
}

func newFakeIngredientRepo() *fakeIngredientRepo {
	return &fakeIngredientRepo{seen: map[string]*models.Ingredient{}}
}

func (f *fakeIngredientRepo) GetOrCreate(name, measurementUnit string) (*models.Ingredient, bool, error) {
	key := name + "|" + measurementUnit
	if existing, ok := f.seen[key]; ok {
		return existing, false, nil
	}
	ingredient := &models.Ingredient{ID: uuid.New(), Name: name, MeasurementUnit: measurementUnit}
	f.seen[key] = ingredient
	return ingredient, true, nil
}

func TestReadIngredientRows(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"абрикосовое варенье,г",
		"яйца куриные,шт.",
		"",
		"без единицы",
		" молоко , мл ",
	}, "\n")

	rows, err := ReadIngredientRows(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []IngredientRow{
		{Name: "абрикосовое варенье", MeasurementUnit: "г"},
		{Name: "яйца куриные", MeasurementUnit: "шт."},
		{Name: "молоко", MeasurementUnit: "мл"},
	}, rows)
}

func TestImportIngredients(t *testing.T) {
	t.Parallel()

	rows := []IngredientRow{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "сахар", MeasurementUnit: "г"},
	}
	repo := newFakeIngredientRepo()

	report, err := ImportIngredients(rows, repo)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Created: 2, AlreadyExists: 0}, report)

	// Second run is idempotent
	report, err = ImportIngredients(rows, repo)
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Created: 0, AlreadyExists: 2}, report)
}

func TestImportIngredientsSameNameDifferentUnit(t *testing.T) {
	t.Parallel()

	repo := newFakeIngredientRepo()
	report, err := ImportIngredients([]IngredientRow{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "мука", MeasurementUnit: "ст. л."},
	}, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
}
