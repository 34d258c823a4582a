package validation

import (
	"regexp"

	"github.com/foodgram-project/backend/errs"
	"github.com/google/uuid"
)

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	tagSlugRe  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// RegistrationPayload holds the inputs of a user registration request.
type RegistrationPayload struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ValidateRegistration checks the mandatory registration fields. The first
// name is optional, matching the reference dataset where some accounts carry
// none.
func ValidateRegistration(p RegistrationPayload) *errs.ApiErr {
	required := []struct {
		field string
		value string
	}{
		{"username", p.Username},
		{"last_name", p.LastName},
		{"email", p.Email},
		{"password", p.Password},
	}
	for _, f := range required {
		if f.value == "" {
			return errs.NewMissingRequiredFieldError(f.field)
		}
	}

	if !usernameRe.MatchString(p.Username) {
		return errs.NewValidationError("username", "username may only contain letters, digits and .@+-_")
	}
	if !emailRe.MatchString(p.Email) {
		return errs.NewValidationError("email", "email address is not valid")
	}

	return nil
}

// ValidateSubscription enforces the self-reference guard. Pair uniqueness is
// checked against the store and backed by its unique index.
func ValidateSubscription(followerID, authorID uuid.UUID) *errs.ApiErr {
	if followerID == authorID {
		return errs.NewValidationError("author", "you cannot subscribe to yourself")
	}
	return nil
}

func ValidateTagSlug(slug string) *errs.ApiErr {
	if !tagSlugRe.MatchString(slug) {
		return errs.NewValidationError("slug", "slug may only contain letters, digits, hyphens and underscores")
	}
	return nil
}
