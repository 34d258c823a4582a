package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/foodgram-project/backend/models"
	"github.com/rs/zerolog/log"
)

// IngredientRow is one parsed line of the reference dataset.
type IngredientRow struct {
	Name            string
	MeasurementUnit string
}

// ImportReport summarizes an importer run.
type ImportReport struct {
	Created       int
	AlreadyExists int
}

// ingredientCreator is the slice of IngredientRepo the importer needs.
type ingredientCreator interface {
	GetOrCreate(name, measurementUnit string) (*models.Ingredient, bool, error)
}

// ReadIngredientRows parses "name,measurement_unit" CSV records. Blank lines
// and rows with an empty name are skipped.
func ReadIngredientRows(r io.Reader) ([]IngredientRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []IngredientRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading ingredient csv: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		name := strings.TrimSpace(record[0])
		unit := strings.TrimSpace(record[1])
		if name == "" || unit == "" {
			continue
		}
		rows = append(rows, IngredientRow{Name: name, MeasurementUnit: unit})
	}
	return rows, nil
}

// ImportIngredients loads the parsed rows into the reference table. The
// operation is idempotent: an already-present (name, unit) pair is counted
// and skipped rather than treated as an error.
func ImportIngredients(rows []IngredientRow, repo ingredientCreator) (ImportReport, error) {
	var report ImportReport
	for _, row := range rows {
		_, created, err := repo.GetOrCreate(row.Name, row.MeasurementUnit)
		if err != nil {
			return report, fmt.Errorf("importing ingredient %q: %w", row.Name, err)
		}
		if created {
			report.Created++
		} else {
			report.AlreadyExists++
			log.Debug().Str("name", row.Name).Msg("ingredient already exists")
		}
	}
	return report, nil
}

// ImportIngredientsFile runs the importer against a CSV file on disk.
func ImportIngredientsFile(path string, repo ingredientCreator) (ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("opening ingredient csv: %w", err)
	}
	defer f.Close()

	rows, err := ReadIngredientRows(f)
	if err != nil {
		return ImportReport{}, err
	}
	return ImportIngredients(rows, repo)
}
