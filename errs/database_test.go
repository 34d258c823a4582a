package errs

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestNewDatabaseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		cause      error
		wantStatus int
	}{
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "idx_favorite_unique"`), http.StatusConflict},
		{"foreign key", errors.New(`insert or update on table violates foreign key constraint`), http.StatusBadRequest},
		{"connection refused", errors.New("connection refused"), http.StatusServiceUnavailable},
		{"anything else", errors.New("syntax error"), http.StatusInternalServerError},
		{"nil cause", nil, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := NewDatabaseError("create", "favorite", tc.cause)
			assert.Equal(t, tc.wantStatus, err.StatusCode)
		})
	}

	t.Run("classified errors pass through unchanged", func(t *testing.T) {
		t.Parallel()

		original := NewForbiddenError("only the author can modify this recipe")
		err := NewDatabaseError("update", "recipe", original)
		assert.Same(t, original, err)
	})
}

func TestApiErrUnwrap(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNotFound(NewNotFound("recipe")))
	assert.True(t, IsAlreadyExists(NewAlreadyExists("subscription")))
	assert.False(t, IsNotFound(NewAlreadyExists("subscription")))
}
