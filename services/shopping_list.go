package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
)

// ShoppingListHeader opens every rendered shopping list, including the one
// for an empty cart.
const ShoppingListHeader = "Список покупок:"

// ShoppingListFilename is the suggested download name for the rendered list.
const ShoppingListFilename = "shopping_cart.txt"

// AggregatePurchases sums the ingredient rows of the cart's recipes into one
// purchase line per distinct ingredient. The same ingredient appearing in
// several recipes contributes a single line with the amounts added. Output is
// ordered case-insensitively by name, then by measurement unit.
func AggregatePurchases(rows []models.RecipeIngredient) []models.PurchaseItem {
	byIngredient := make(map[uuid.UUID]*models.PurchaseItem, len(rows))
	for _, row := range rows {
		if item, ok := byIngredient[row.IngredientID]; ok {
			item.Amount += row.Amount
			continue
		}
		byIngredient[row.IngredientID] = &models.PurchaseItem{
			IngredientID:    row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		}
	}

	items := make([]models.PurchaseItem, 0, len(byIngredient))
	for _, item := range byIngredient {
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		ni, nj := strings.ToLower(items[i].Name), strings.ToLower(items[j].Name)
		if ni != nj {
			return ni < nj
		}
		return items[i].MeasurementUnit < items[j].MeasurementUnit
	})
	return items
}

// RenderShoppingList turns aggregated purchase rows into the downloadable
// text: a header line, then one line per distinct ingredient in the order the
// rows arrive. An empty slice yields just the header.
func RenderShoppingList(items []models.PurchaseItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s, %d %s\n", item.Name, item.Amount, item.MeasurementUnit)
	}
	return b.String()
}
