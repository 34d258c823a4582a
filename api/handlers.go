package api

import (
	"time"

	"github.com/foodgram-project/backend/database"
	"github.com/foodgram-project/backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, images services.ImageStore, jwtSecret []byte, tokenTTL time.Duration) *routeHandlers {
	return &routeHandlers{
		userHandler: newUserHandler(
			database.UserRepo(),
			database.SubscriptionRepo(),
			database.RecipeRepo(),
			jwtSecret,
			tokenTTL,
		),
		tagHandler:        newTagHandler(database.TagRepo()),
		ingredientHandler: newIngredientHandler(database.IngredientRepo()),
		recipeHandler: newRecipeHandler(
			database.RecipeRepo(),
			database.TagRepo(),
			database.IngredientRepo(),
			database.FavoriteRepo(),
			database.ShoppingCartRepo(),
			database.SubscriptionRepo(),
			images,
		),
	}
}
