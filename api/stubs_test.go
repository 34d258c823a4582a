package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"

	"github.com/foodgram-project/backend/database"
	"github.com/foodgram-project/backend/errs"
	"github.com/foodgram-project/backend/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory stand-ins for the database repos, used to exercise the handlers
// over httptest without a live database.

type pair struct {
	a, b uuid.UUID
}

type stubUserStore struct {
	users map[uuid.UUID]*models.User
}

func newStubUserStore(users ...*models.User) *stubUserStore {
	s := &stubUserStore{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUserStore) Add(user *models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return errs.NewAlreadyExists("user")
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return nil
}

func (s *stubUserStore) FindByID(id uuid.UUID) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, errs.NewDatabaseError("find", "user", gorm.ErrRecordNotFound)
}

func (s *stubUserStore) FindByEmail(email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errs.NewDatabaseError("find", "user", gorm.ErrRecordNotFound)
}

func (s *stubUserStore) FindAll(limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserStore) UpdatePassword(id uuid.UUID, passwordHash string) error {
	u, ok := s.users[id]
	if !ok {
		return errs.NewDatabaseError("update", "user", gorm.ErrRecordNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (s *stubUserStore) Delete(id uuid.UUID) error {
	delete(s.users, id)
	return nil
}

type stubTagStore struct {
	tags map[uuid.UUID]*models.Tag
}

func newStubTagStore(tags ...*models.Tag) *stubTagStore {
	s := &stubTagStore{tags: map[uuid.UUID]*models.Tag{}}
	for _, tag := range tags {
		s.tags[tag.ID] = tag
	}
	return s
}

func (s *stubTagStore) FindAll() ([]*models.Tag, error) {
	var out []*models.Tag
	for _, tag := range s.tags {
		out = append(out, tag)
	}
	return out, nil
}

func (s *stubTagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	if tag, ok := s.tags[id]; ok {
		return tag, nil
	}
	return nil, errs.NewDatabaseError("find", "tag", gorm.ErrRecordNotFound)
}

func (s *stubTagStore) FindByIDs(ids []uuid.UUID) ([]models.Tag, error) {
	var out []models.Tag
	for _, id := range ids {
		if tag, ok := s.tags[id]; ok {
			out = append(out, *tag)
		}
	}
	return out, nil
}

type stubIngredientStore struct {
	ingredients map[uuid.UUID]*models.Ingredient
}

func newStubIngredientStore(ingredients ...*models.Ingredient) *stubIngredientStore {
	s := &stubIngredientStore{ingredients: map[uuid.UUID]*models.Ingredient{}}
	for _, ing := range ingredients {
		s.ingredients[ing.ID] = ing
	}
	return s
}

func (s *stubIngredientStore) Search(namePrefix string) ([]*models.Ingredient, error) {
	var out []*models.Ingredient
	for _, ing := range s.ingredients {
		if strings.HasPrefix(strings.ToLower(ing.Name), strings.ToLower(namePrefix)) {
			out = append(out, ing)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].MeasurementUnit < out[j].MeasurementUnit
	})
	return out, nil
}

func (s *stubIngredientStore) FindByID(id uuid.UUID) (*models.Ingredient, error) {
	if ing, ok := s.ingredients[id]; ok {
		return ing, nil
	}
	return nil, errs.NewDatabaseError("find", "ingredient", gorm.ErrRecordNotFound)
}

func (s *stubIngredientStore) FindByIDs(ids []uuid.UUID) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for _, id := range ids {
		if ing, ok := s.ingredients[id]; ok {
			out = append(out, *ing)
		}
	}
	return out, nil
}

type stubRecipeStore struct {
	recipes map[uuid.UUID]*models.Recipe
}

func newStubRecipeStore(recipes ...*models.Recipe) *stubRecipeStore {
	s := &stubRecipeStore{recipes: map[uuid.UUID]*models.Recipe{}}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	return s
}

func (s *stubRecipeStore) FindByID(id uuid.UUID) (*models.Recipe, error) {
	if r, ok := s.recipes[id]; ok {
		return r, nil
	}
	return nil, errs.NewDatabaseError("find", "recipe", gorm.ErrRecordNotFound)
}

func (s *stubRecipeStore) matching(filter database.RecipeFilter) []*models.Recipe {
	var out []*models.Recipe
	for _, r := range s.recipes {
		if filter.AuthorID != nil && r.AuthorID != *filter.AuthorID {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (s *stubRecipeStore) FindAll(filter database.RecipeFilter) ([]*models.Recipe, error) {
	out := s.matching(filter)
	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *stubRecipeStore) Count(filter database.RecipeFilter) (int64, error) {
	return int64(len(s.matching(filter))), nil
}

func (s *stubRecipeStore) Add(recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	if recipe.ID == uuid.Nil {
		recipe.ID = uuid.New()
	}
	recipe.Tags = tags
	recipe.Ingredients = ingredients
	s.recipes[recipe.ID] = recipe
	return nil
}

func (s *stubRecipeStore) Update(recipe *models.Recipe, tags []models.Tag, ingredients []models.RecipeIngredient) error {
	existing, ok := s.recipes[recipe.ID]
	if !ok {
		return errs.NewDatabaseError("update", "recipe", gorm.ErrRecordNotFound)
	}
	recipe.Author = existing.Author
	recipe.Tags = tags
	recipe.Ingredients = ingredients
	s.recipes[recipe.ID] = recipe
	return nil
}

func (s *stubRecipeStore) Delete(id uuid.UUID) error {
	delete(s.recipes, id)
	return nil
}

func (s *stubRecipeStore) ShortByAuthor(authorID uuid.UUID, limit int) ([]*models.Recipe, error) {
	var out []*models.Recipe
	for _, r := range s.recipes {
		if r.AuthorID == authorID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubRecipeStore) CountByAuthor(authorID uuid.UUID) (int64, error) {
	var n int64
	for _, r := range s.recipes {
		if r.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

// stubListStore backs both favorites and cart membership.
type stubListStore struct {
	entries map[pair]struct{}
}

func newStubListStore() *stubListStore {
	return &stubListStore{entries: map[pair]struct{}{}}
}

func (s *stubListStore) Add(userID, recipeID uuid.UUID) error {
	key := pair{userID, recipeID}
	if _, ok := s.entries[key]; ok {
		return errs.NewAlreadyExists("entry")
	}
	s.entries[key] = struct{}{}
	return nil
}

func (s *stubListStore) Remove(userID, recipeID uuid.UUID) (bool, error) {
	key := pair{userID, recipeID}
	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

func (s *stubListStore) Exists(userID, recipeID uuid.UUID) (bool, error) {
	_, ok := s.entries[pair{userID, recipeID}]
	return ok, nil
}

func (s *stubListStore) Flags(userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	flags := map[uuid.UUID]bool{}
	for _, id := range recipeIDs {
		if _, ok := s.entries[pair{userID, id}]; ok {
			flags[id] = true
		}
	}
	return flags, nil
}

// stubCartStore tracks membership and the ingredient rows behind each recipe,
// so cart downloads run the real aggregation over raw rows.
type stubCartStore struct {
	*stubListStore
	ingredientRows map[uuid.UUID][]models.RecipeIngredient
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{
		stubListStore:  newStubListStore(),
		ingredientRows: map[uuid.UUID][]models.RecipeIngredient{},
	}
}

func (s *stubCartStore) CartIngredients(userID uuid.UUID) ([]models.RecipeIngredient, error) {
	var rows []models.RecipeIngredient
	for key := range s.entries {
		if key.a == userID {
			rows = append(rows, s.ingredientRows[key.b]...)
		}
	}
	return rows, nil
}

type stubSubscriptionStore struct {
	*stubListStore
	users *stubUserStore
}

func newStubSubscriptionStore(users *stubUserStore) *stubSubscriptionStore {
	return &stubSubscriptionStore{stubListStore: newStubListStore(), users: users}
}

func (s *stubSubscriptionStore) Authors(followerID uuid.UUID, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for key := range s.entries {
		if key.a == followerID {
			if author, ok := s.users.users[key.b]; ok {
				out = append(out, author)
			}
		}
	}
	return out, nil
}

// stubImageStore returns a fixed reference without touching any storage.
type stubImageStore struct {
	saved []string
}

func (s *stubImageStore) Save(_ context.Context, dataURI string) (string, error) {
	s.saved = append(s.saved, dataURI)
	return "/media/recipes/test.png", nil
}

// withURLParam attaches a chi route parameter to the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// asUser marks the request as authenticated.
func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	return r.WithContext(ctxWithUserID(r.Context(), userID))
}

func doRequest(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}
