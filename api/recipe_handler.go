package api

import (
	"encoding/json"
	"net/http"

	"github.com/foodgram-project/backend/database"
	"github.com/foodgram-project/backend/errs"
	"github.com/foodgram-project/backend/models"
	"github.com/foodgram-project/backend/services"
	"github.com/foodgram-project/backend/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type recipeHandler struct {
	responder      Responder
	logger         zerolog.Logger
	recipeRepo     recipeStore
	tagRepo        tagStore
	ingredientRepo ingredientStore
	favorites      recipeListStore
	cart           shoppingCartStore
	subscriptions  subscriptionStore
	images         services.ImageStore
}

func newRecipeHandler(
	recipeRepo recipeStore,
	tagRepo tagStore,
	ingredientRepo ingredientStore,
	favorites recipeListStore,
	cart shoppingCartStore,
	subscriptions subscriptionStore,
	images services.ImageStore,
) recipeHandler {
	logger := log.With().Str("handlerName", "recipeHandler").Logger()

	return recipeHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		favorites:      favorites,
		cart:           cart,
		subscriptions:  subscriptions,
		images:         images,
	}
}

// resolveRelations validates the payload's tag and ingredient references
// against the reference tables and returns the rows to persist.
func (h recipeHandler) resolveRelations(req recipeRequest) ([]models.Tag, []models.RecipeIngredient, error) {
	tags, err := h.tagRepo.FindByIDs(req.Tags)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "tags", err)
	}
	if len(tags) != len(req.Tags) {
		return nil, nil, errs.NewNotFoundError("tag not found")
	}

	ingredientIDs := make([]uuid.UUID, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredientIDs = append(ingredientIDs, ing.ID)
	}
	ingredients, err := h.ingredientRepo.FindByIDs(ingredientIDs)
	if err != nil {
		return nil, nil, wrapDatabaseError("find", "ingredients", err)
	}
	if len(ingredients) != len(ingredientIDs) {
		return nil, nil, errs.NewNotFoundError("ingredient not found")
	}

	rows := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		rows = append(rows, models.RecipeIngredient{
			IngredientID: ing.ID,
			Amount:       ing.Amount,
		})
	}
	return tags, rows, nil
}

func newRecipeResponse(recipe *models.Recipe, isFavorited, isInCart, authorSubscribed bool) recipeResponse {
	ingredients := make([]ingredientInRecipeResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, ingredientInRecipeResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}

	return recipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           newUserResponse(&recipe.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// recipeResponses decorates recipes with the viewer's favorite, cart and
// subscription flags. Anonymous viewers see every flag false.
func (h recipeHandler) recipeResponses(recipes []*models.Recipe, viewerID *uuid.UUID) ([]recipeResponse, error) {
	recipeIDs := make([]uuid.UUID, 0, len(recipes))
	authorIDs := make([]uuid.UUID, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
		authorIDs = append(authorIDs, recipe.AuthorID)
	}

	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	subscribed := map[uuid.UUID]bool{}
	if viewerID != nil {
		var err error
		if favorited, err = h.favorites.Flags(*viewerID, recipeIDs); err != nil {
			return nil, wrapDatabaseError("find", "favorites", err)
		}
		if inCart, err = h.cart.Flags(*viewerID, recipeIDs); err != nil {
			return nil, wrapDatabaseError("find", "shopping cart items", err)
		}
		if subscribed, err = h.subscriptions.Flags(*viewerID, authorIDs); err != nil {
			return nil, wrapDatabaseError("find", "subscriptions", err)
		}
	}

	responses := make([]recipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		responses = append(responses, newRecipeResponse(
			recipe, favorited[recipe.ID], inCart[recipe.ID], subscribed[recipe.AuthorID]))
	}
	return responses, nil
}

// listRecipes applies the optional author/tags/is_favorited/is_in_shopping_cart
// filters. The boolean filters are no-ops for anonymous callers.
func (h recipeHandler) listRecipes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePaging(r)
		filter := database.RecipeFilter{
			TagSlugs: r.URL.Query()["tags"],
			Limit:    limit,
			Offset:   offset,
		}

		if authorParam := r.URL.Query().Get("author"); authorParam != "" {
			authorID, err := uuid.Parse(authorParam)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid author"))
				return
			}
			filter.AuthorID = &authorID
		}

		var viewerID *uuid.UUID
		if id, ok := userIDFromCtx(r.Context()); ok {
			viewerID = &id
			if parseBoolParam(r, "is_favorited") {
				filter.FavoritedBy = &id
			}
			if parseBoolParam(r, "is_in_shopping_cart") {
				filter.InCartOf = &id
			}
		}

		recipes, err := h.recipeRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipes", err))
			return
		}

		total, err := h.recipeRepo.Count(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "recipes", err))
			return
		}

		responses, respErr := h.recipeResponses(recipes, viewerID)
		if respErr != nil {
			h.responder.WriteError(w, respErr)
			return
		}
		h.responder.WriteJSON(w, recipeListResponse{Recipes: responses, Total: total})
	}
}

// getRecipe returns one recipe with relations and viewer flags
func (h recipeHandler) getRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		recipe, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}

		var viewerID *uuid.UUID
		if id, ok := userIDFromCtx(r.Context()); ok {
			viewerID = &id
		}
		responses, respErr := h.recipeResponses([]*models.Recipe{recipe}, viewerID)
		if respErr != nil {
			h.responder.WriteError(w, respErr)
			return
		}
		h.responder.WriteJSON(w, responses[0])
	}
}

// createRecipe validates the payload, stores the image and persists the
// recipe with the caller as owner
func (h recipeHandler) createRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		var req recipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := validation.ValidateRecipe(recipePayload(req, true)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, ingredientRows, err := h.resolveRelations(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		imageRef, err := h.images.Save(r.Context(), req.Image)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe := models.Recipe{
			AuthorID:    userID,
			Name:        req.Name,
			Text:        req.Text,
			Image:       imageRef,
			CookingTime: req.CookingTime,
		}
		if err := h.recipeRepo.Add(&recipe, tags, ingredientRows); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "recipe", err))
			return
		}

		created, err := h.recipeRepo.FindByID(recipe.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}

		responses, respErr := h.recipeResponses([]*models.Recipe{created}, &userID)
		if respErr != nil {
			h.responder.WriteError(w, respErr)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, responses[0])
	}
}

// updateRecipe rewrites an owned recipe; the image is kept when omitted
func (h recipeHandler) updateRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		existing, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}
		if existing.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can modify this recipe"))
			return
		}

		var req recipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := validation.ValidateRecipe(recipePayload(req, false)); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tags, ingredientRows, err := h.resolveRelations(req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		imageRef := existing.Image
		if req.Image != "" {
			if imageRef, err = h.images.Save(r.Context(), req.Image); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		updated := models.Recipe{
			ID:          recipeID,
			AuthorID:    existing.AuthorID,
			Name:        req.Name,
			Text:        req.Text,
			Image:       imageRef,
			CookingTime: req.CookingTime,
		}
		if err := h.recipeRepo.Update(&updated, tags, ingredientRows); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "recipe", err))
			return
		}

		reloaded, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}

		responses, respErr := h.recipeResponses([]*models.Recipe{reloaded}, &userID)
		if respErr != nil {
			h.responder.WriteError(w, respErr)
			return
		}
		h.responder.WriteJSON(w, responses[0])
	}
}

// deleteRecipe removes an owned recipe and its dependent rows
func (h recipeHandler) deleteRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		existing, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}
		if existing.AuthorID != userID {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author can delete this recipe"))
			return
		}

		if err := h.recipeRepo.Delete(recipeID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "recipe", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// addToList implements the absent→present transition shared by favorites and
// the shopping cart: 404 for an unknown recipe, 400 when already present.
func (h recipeHandler) addToList(list recipeListStore, listName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		recipe, err := h.recipeRepo.FindByID(recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}

		exists, err := list.Exists(userID, recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", listName, err))
			return
		}
		if exists {
			h.responder.WriteError(w, errs.NewBadRequestError("recipe already added to "+listName))
			return
		}

		// a concurrent duplicate slips past the check above and fails on the
		// unique index, surfacing as 409
		if err := list.Add(userID, recipeID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", listName, err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, newShortRecipeResponse(recipe))
	}
}

// removeFromList implements the present→absent transition: 404 when the
// recipe is not in the list.
func (h recipeHandler) removeFromList(list recipeListStore, listName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		removed, err := list.Remove(userID, recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", listName, err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFoundError("recipe not found in "+listName))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h recipeHandler) addFavorite() http.HandlerFunc {
	return h.addToList(h.favorites, "favorites")
}

func (h recipeHandler) removeFavorite() http.HandlerFunc {
	return h.removeFromList(h.favorites, "favorites")
}

func (h recipeHandler) addToCart() http.HandlerFunc {
	return h.addToList(h.cart, "shopping cart")
}

func (h recipeHandler) removeFromCart() http.HandlerFunc {
	return h.removeFromList(h.cart, "shopping cart")
}

// downloadShoppingCart aggregates the caller's cart into the plain-text
// shopping list. An empty cart yields just the header line.
func (h recipeHandler) downloadShoppingCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		rows, err := h.cart.CartIngredients(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "shopping cart", err))
			return
		}

		items := services.AggregatePurchases(rows)
		h.responder.WriteAttachment(w, services.ShoppingListFilename, services.RenderShoppingList(items))
	}
}

func recipePayload(req recipeRequest, requireImage bool) validation.RecipePayload {
	ingredients := make([]validation.IngredientRef, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		ingredients = append(ingredients, validation.IngredientRef{ID: ing.ID, Amount: ing.Amount})
	}
	return validation.RecipePayload{
		Name:         req.Name,
		Text:         req.Text,
		Image:        req.Image,
		CookingTime:  req.CookingTime,
		TagIDs:       req.Tags,
		Ingredients:  ingredients,
		RequireImage: requireImage,
	}
}
