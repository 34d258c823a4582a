package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/foodgram-project/backend/auth"
	"github.com/foodgram-project/backend/errs"
	"github.com/foodgram-project/backend/models"
	"github.com/foodgram-project/backend/validation"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type userHandler struct {
	responder     Responder
	logger        zerolog.Logger
	userRepo      userStore
	subscriptions subscriptionStore
	recipeRepo    recipeStore
	jwtSecret     []byte
	tokenTTL      time.Duration
}

func newUserHandler(userRepo userStore, subscriptions subscriptionStore, recipeRepo recipeStore, jwtSecret []byte, tokenTTL time.Duration) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:     NewResponder(logger),
		logger:        logger,
		userRepo:      userRepo,
		subscriptions: subscriptions,
		recipeRepo:    recipeRepo,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
	}
}

// register creates a new account
func (h userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := validation.ValidateRegistration(validation.RegistrationPayload{
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Password:  req.Password,
		}); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		passwordHash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}

		user := models.User{
			Username:     req.Username,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			PasswordHash: passwordHash,
		}
		// duplicate username/email surfaces from the unique indexes as 409
		if err := h.userRepo.Add(&user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, newUserResponse(&user, false))
	}
}

// login exchanges email+password for an access token
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Email == "" || req.Password == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("email and password are required"))
			return
		}

		user, err := h.userRepo.FindByEmail(req.Email)
		if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
			h.responder.WriteError(w, errs.NewUnauthorizedError("invalid credentials"))
			return
		}

		token, err := auth.GenerateToken(user.ID.String(), h.jwtSecret, h.tokenTTL)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to issue token", err))
			return
		}

		h.responder.WriteJSON(w, tokenResponse{AuthToken: token})
	}
}

// logout is a no-op for stateless tokens
func (h userHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}

// listUsers returns public profiles; is_subscribed reflects the caller
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePaging(r)

		users, err := h.userRepo.FindAll(limit, offset)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "users", err))
			return
		}

		flags := map[uuid.UUID]bool{}
		if viewerID, ok := userIDFromCtx(r.Context()); ok {
			ids := make([]uuid.UUID, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			flags, err = h.subscriptions.Flags(viewerID, ids)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "subscriptions", err))
				return
			}
		}

		responses := make([]userResponse, 0, len(users))
		for _, u := range users {
			responses = append(responses, newUserResponse(u, flags[u.ID]))
		}
		h.responder.WriteJSON(w, responses)
	}
}

// getUser returns one public profile
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		isSubscribed := false
		if viewerID, ok := userIDFromCtx(r.Context()); ok {
			isSubscribed, err = h.subscriptions.Exists(viewerID, userID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "subscription", err))
				return
			}
		}

		h.responder.WriteJSON(w, newUserResponse(user, isSubscribed))
	}
}

// me returns the authenticated caller's profile
func (h userHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		h.responder.WriteJSON(w, newUserResponse(user, false))
	}
}

// setPassword changes the caller's password after verifying the current one
func (h userHandler) setPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		var req setPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.NewPassword == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("new_password"))
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			h.responder.WriteError(w, errs.NewValidationError("current_password", "current password is incorrect"))
			return
		}

		passwordHash, err := auth.HashPassword(req.NewPassword)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to hash password", err))
			return
		}
		if err := h.userRepo.UpdatePassword(userID, passwordHash); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// deleteMe removes the caller's account and everything it owns in one
// transaction
func (h userHandler) deleteMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := userIDFromCtx(r.Context())

		if err := h.userRepo.Delete(userID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "user", err))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// recipesLimit reads the recipes_limit query param; 0 means unlimited
func recipesLimit(r *http.Request) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("recipes_limit")); err == nil && v > 0 {
		return v
	}
	return 0
}

func (h userHandler) subscriptionResponse(author *models.User, limit int) (*subscriptionResponse, error) {
	recipes, err := h.recipeRepo.ShortByAuthor(author.ID, limit)
	if err != nil {
		return nil, wrapDatabaseError("find", "recipes", err)
	}
	count, err := h.recipeRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, wrapDatabaseError("count", "recipes", err)
	}

	short := make([]shortRecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		short = append(short, newShortRecipeResponse(recipe))
	}

	return &subscriptionResponse{
		userResponse: newUserResponse(author, true),
		Recipes:      short,
		RecipesCount: count,
	}, nil
}

// subscribe follows an author. Both the self-reference and the duplicate
// guard are enforced here, with the unique index as the atomic backstop.
func (h userHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, _ := userIDFromCtx(r.Context())

		authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		if err := validation.ValidateSubscription(followerID, authorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		author, err := h.userRepo.FindByID(authorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		exists, err := h.subscriptions.Exists(followerID, authorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "subscription", err))
			return
		}
		if exists {
			h.responder.WriteError(w, errs.NewValidationError("author", "you are already subscribed to this user"))
			return
		}

		if err := h.subscriptions.Add(followerID, authorID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "subscription", err))
			return
		}

		response, respErr := h.subscriptionResponse(author, recipesLimit(r))
		if respErr != nil {
			h.responder.WriteError(w, respErr)
			return
		}
		h.responder.WriteJSONStatus(w, http.StatusCreated, response)
	}
}

// unsubscribe removes a follow
func (h userHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, _ := userIDFromCtx(r.Context())

		authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		removed, err := h.subscriptions.Remove(followerID, authorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "subscription", err))
			return
		}
		if !removed {
			h.responder.WriteError(w, errs.NewNotFoundError("subscription not found"))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// subscriptions lists the authors the caller follows with their recipes
func (h userHandler) listSubscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, _ := userIDFromCtx(r.Context())
		limit, offset := parsePaging(r)

		authors, err := h.subscriptions.Authors(followerID, limit, offset)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "subscriptions", err))
			return
		}

		perAuthorLimit := recipesLimit(r)
		responses := make([]*subscriptionResponse, 0, len(authors))
		for _, author := range authors {
			response, respErr := h.subscriptionResponse(author, perAuthorLimit)
			if respErr != nil {
				h.responder.WriteError(w, respErr)
				return
			}
			responses = append(responses, response)
		}

		h.responder.WriteJSON(w, responses)
	}
}
