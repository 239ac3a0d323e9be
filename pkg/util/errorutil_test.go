package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	t.Run("Passes Through DomainError", func(t *testing.T) {
		src := NewValidationError("bad input", nil)
		de := ToDomainError(src)
		require.Equal(t, "VALIDATION_FAILED", de.Code)
		require.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	})

	t.Run("Unwraps Wrapped DomainError", func(t *testing.T) {
		src := fmt.Errorf("register: %w", NewUnauthorized("invalid credentials"))
		de := ToDomainError(src)
		require.Equal(t, "UNAUTHORIZED", de.Code)
		require.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	})

	t.Run("Maps Missing Row To NotFound", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("get user: %w", pgx.ErrNoRows))
		require.Equal(t, "NOT_FOUND", de.Code)
		require.Equal(t, http.StatusNotFound, de.HTTPStatus)
	})

	t.Run("Maps Unique Violation To Conflict", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		de := ToDomainError(fmt.Errorf("insert user: %w", pgErr))
		require.Equal(t, "CONFLICT", de.Code)
		require.Equal(t, http.StatusConflict, de.HTTPStatus)
		require.Equal(t, "users_username_key", de.Details["constraint"])
	})

	t.Run("Other Postgres Errors Stay Internal", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23503"}
		de := ToDomainError(pgErr)
		require.Equal(t, "INTERNAL_ERROR", de.Code)
		require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})

	t.Run("Unknown Errors Become Internal", func(t *testing.T) {
		de := ToDomainError(errors.New("boom"))
		require.Equal(t, "INTERNAL_ERROR", de.Code)
		require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	})

	t.Run("Nil Stays Nil", func(t *testing.T) {
		require.Nil(t, ToDomainError(nil))
	})
}
