package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/foodgram-project/backend/auth"
	"github.com/foodgram-project/backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTSecret = []byte("handler-test-secret")

type userFixture struct {
	handler       userHandler
	users         *stubUserStore
	subscriptions *stubSubscriptionStore
	recipes       *stubRecipeStore
}

func newUserFixture(users ...*models.User) *userFixture {
	userStore := newStubUserStore(users...)
	subs := newStubSubscriptionStore(userStore)
	recipes := newStubRecipeStore()
	return &userFixture{
		handler:       newUserHandler(userStore, subs, recipes, testJWTSecret, time.Hour),
		users:         userStore,
		subscriptions: subs,
		recipes:       recipes,
	}
}

func registeredUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Username:     "chef",
		FirstName:    "Ivan",
		LastName:     "Ivanov",
		Email:        "chef@example.com",
		PasswordHash: hash,
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("valid registration returns the profile", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()

		body, _ := json.Marshal(registerRequest{
			Username: "newuser",
			LastName: "Petrov",
			Email:    "new@example.com",
			Password: "s3cret-pass",
		})
		w := doRequest(f.handler.register(), httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBuffer(body)))

		require.Equal(t, http.StatusCreated, w.Code)

		var resp userResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "newuser", resp.Username)
		assert.False(t, resp.IsSubscribed)

		// Password hash never leaves the server
		assert.NotContains(t, w.Body.String(), "s3cret-pass")
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("missing last_name names the field", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()

		body, _ := json.Marshal(registerRequest{
			Username: "newuser",
			Email:    "new@example.com",
			Password: "s3cret-pass",
		})
		w := doRequest(f.handler.register(), httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBuffer(body)))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "last_name")
	})

	t.Run("duplicate email yields 409", func(t *testing.T) {
		t.Parallel()
		existing := registeredUser(t, "whatever1")
		f := newUserFixture(existing)

		body, _ := json.Marshal(registerRequest{
			Username: "other",
			LastName: "Petrov",
			Email:    existing.Email,
			Password: "s3cret-pass",
		})
		w := doRequest(f.handler.register(), httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials yield a usable token", func(t *testing.T) {
		t.Parallel()
		user := registeredUser(t, "s3cret-pass")
		f := newUserFixture(user)

		body, _ := json.Marshal(loginRequest{Email: user.Email, Password: "s3cret-pass"})
		w := doRequest(f.handler.login(), httptest.NewRequest(http.MethodPost, "/api/auth/token/login", bytes.NewBuffer(body)))

		require.Equal(t, http.StatusOK, w.Code)

		var resp tokenResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		gotID, err := auth.UserIDFromToken(resp.AuthToken, testJWTSecret)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), gotID)
	})

	t.Run("wrong password yields 401", func(t *testing.T) {
		t.Parallel()
		user := registeredUser(t, "s3cret-pass")
		f := newUserFixture(user)

		body, _ := json.Marshal(loginRequest{Email: user.Email, Password: "wrong"})
		w := doRequest(f.handler.login(), httptest.NewRequest(http.MethodPost, "/api/auth/token/login", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email yields 401", func(t *testing.T) {
		t.Parallel()
		f := newUserFixture()

		body, _ := json.Marshal(loginRequest{Email: "nobody@example.com", Password: "whatever1"})
		w := doRequest(f.handler.login(), httptest.NewRequest(http.MethodPost, "/api/auth/token/login", bytes.NewBuffer(body)))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestSetPassword(t *testing.T) {
	t.Parallel()

	t.Run("correct current password changes the hash", func(t *testing.T) {
		t.Parallel()
		user := registeredUser(t, "old-pass-1")
		f := newUserFixture(user)

		body, _ := json.Marshal(setPasswordRequest{CurrentPassword: "old-pass-1", NewPassword: "new-pass-2"})
		r := asUser(httptest.NewRequest(http.MethodPost, "/api/users/set_password", bytes.NewBuffer(body)), user.ID)
		w := doRequest(f.handler.setPassword(), r)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "new-pass-2"))
	})

	t.Run("wrong current password is rejected", func(t *testing.T) {
		t.Parallel()
		user := registeredUser(t, "old-pass-1")
		f := newUserFixture(user)

		body, _ := json.Marshal(setPasswordRequest{CurrentPassword: "nope", NewPassword: "new-pass-2"})
		r := asUser(httptest.NewRequest(http.MethodPost, "/api/users/set_password", bytes.NewBuffer(body)), user.ID)
		w := doRequest(f.handler.setPassword(), r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.True(t, auth.CheckPassword(user.PasswordHash, "old-pass-1"))
	})
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	t.Run("subscribing returns the author with recipes", func(t *testing.T) {
		t.Parallel()
		follower := registeredUser(t, "whatever1")
		author := &models.User{ID: uuid.New(), Username: "author", Email: "author@example.com", LastName: "Author"}
		f := newUserFixture(follower, author)
		f.recipes.recipes[uuid.New()] = &models.Recipe{ID: uuid.New(), AuthorID: author.ID, Name: "Борщ", CookingTime: 90}

		r := asUser(httptest.NewRequest(http.MethodPost, "/api/users/x/subscribe", nil), follower.ID)
		r = withURLParam(r, "userID", author.ID.String())
		w := doRequest(f.handler.subscribe(), r)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp subscriptionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, author.ID, resp.ID)
		assert.True(t, resp.IsSubscribed)
		assert.Equal(t, int64(1), resp.RecipesCount)
		require.Len(t, resp.Recipes, 1)
		assert.Equal(t, "Борщ", resp.Recipes[0].Name)
	})

	t.Run("self-subscription is rejected", func(t *testing.T) {
		t.Parallel()
		follower := registeredUser(t, "whatever1")
		f := newUserFixture(follower)

		r := asUser(httptest.NewRequest(http.MethodPost, "/api/users/x/subscribe", nil), follower.ID)
		r = withURLParam(r, "userID", follower.ID.String())
		w := doRequest(f.handler.subscribe(), r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate subscription is rejected", func(t *testing.T) {
		t.Parallel()
		follower := registeredUser(t, "whatever1")
		author := &models.User{ID: uuid.New(), Username: "author", Email: "author@example.com", LastName: "Author"}
		f := newUserFixture(follower, author)
		require.NoError(t, f.subscriptions.Add(follower.ID, author.ID))

		r := asUser(httptest.NewRequest(http.MethodPost, "/api/users/x/subscribe", nil), follower.ID)
		r = withURLParam(r, "userID", author.ID.String())
		w := doRequest(f.handler.subscribe(), r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown author yields 404", func(t *testing.T) {
		t.Parallel()
		follower := registeredUser(t, "whatever1")
		f := newUserFixture(follower)

		r := asUser(httptest.NewRequest(http.MethodPost, "/api/users/x/subscribe", nil), follower.ID)
		r = withURLParam(r, "userID", uuid.New().String())
		w := doRequest(f.handler.subscribe(), r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	follower := registeredUser(t, "whatever1")
	author := &models.User{ID: uuid.New(), Username: "author", Email: "author@example.com", LastName: "Author"}
	f := newUserFixture(follower, author)
	require.NoError(t, f.subscriptions.Add(follower.ID, author.ID))

	r := asUser(httptest.NewRequest(http.MethodDelete, "/api/users/x/subscribe", nil), follower.ID)
	r = withURLParam(r, "userID", author.ID.String())
	w := doRequest(f.handler.unsubscribe(), r)
	require.Equal(t, http.StatusNoContent, w.Code)

	// A second removal finds nothing
	r = asUser(httptest.NewRequest(http.MethodDelete, "/api/users/x/subscribe", nil), follower.ID)
	r = withURLParam(r, "userID", author.ID.String())
	w = doRequest(f.handler.unsubscribe(), r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListSubscriptionsRecipesLimit(t *testing.T) {
	t.Parallel()

	follower := registeredUser(t, "whatever1")
	author := &models.User{ID: uuid.New(), Username: "author", Email: "author@example.com", LastName: "Author"}
	f := newUserFixture(follower, author)
	require.NoError(t, f.subscriptions.Add(follower.ID, author.ID))
	for i := 0; i < 3; i++ {
		id := uuid.New()
		f.recipes.recipes[id] = &models.Recipe{ID: id, AuthorID: author.ID, Name: "Рецепт", CookingTime: 10}
	}

	r := asUser(httptest.NewRequest(http.MethodGet, "/api/users/subscriptions?recipes_limit=2", nil), follower.ID)
	w := doRequest(f.handler.listSubscriptions(), r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []subscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Len(t, resp[0].Recipes, 2)
	assert.Equal(t, int64(3), resp[0].RecipesCount)
}
