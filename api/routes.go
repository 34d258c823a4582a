package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the /api surface. Public reads run behind the optional
// identity resolver so viewer-dependent flags work for logged-in callers;
// everything that mutates state requires a token.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		// Open and optionally-authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.optional)

			r.Post("/users", handlers.userHandler.register())
			r.Post("/auth/token/login", handlers.userHandler.login())

			r.Get("/users", handlers.userHandler.listUsers())
			r.Get("/users/{userID}", handlers.userHandler.getUser())

			r.Get("/tags", handlers.tagHandler.listTags())
			r.Get("/tags/{tagID}", handlers.tagHandler.getTag())

			r.Get("/ingredients", handlers.ingredientHandler.listIngredients())
			r.Get("/ingredients/{ingredientID}", handlers.ingredientHandler.getIngredient())

			r.Get("/recipes", handlers.recipeHandler.listRecipes())
			r.Get("/recipes/{recipeID}", handlers.recipeHandler.getRecipe())
		})

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.require)

			r.Post("/auth/token/logout", handlers.userHandler.logout())

			r.Get("/users/me", handlers.userHandler.me())
			r.Post("/users/set_password", handlers.userHandler.setPassword())
			r.Delete("/users/me", handlers.userHandler.deleteMe())

			r.Get("/users/subscriptions", handlers.userHandler.listSubscriptions())
			r.Post("/users/{userID}/subscribe", handlers.userHandler.subscribe())
			r.Delete("/users/{userID}/subscribe", handlers.userHandler.unsubscribe())

			r.Post("/recipes", handlers.recipeHandler.createRecipe())
			r.Patch("/recipes/{recipeID}", handlers.recipeHandler.updateRecipe())
			r.Delete("/recipes/{recipeID}", handlers.recipeHandler.deleteRecipe())

			r.Post("/recipes/{recipeID}/favorite", handlers.recipeHandler.addFavorite())
			r.Delete("/recipes/{recipeID}/favorite", handlers.recipeHandler.removeFavorite())

			r.Post("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.addToCart())
			r.Delete("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.removeFromCart())

			r.Get("/recipes/download_shopping_cart", handlers.recipeHandler.downloadShoppingCart())
		})
	})
}
