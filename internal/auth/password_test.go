package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	t.Run("Digests Differ Per Call", func(t *testing.T) {
		first, err := HashPassword("pw123", bcrypt.MinCost)
		require.NoError(t, err)
		second, err := HashPassword("pw123", bcrypt.MinCost)
		require.NoError(t, err)

		require.NotEqual(t, first, second)
		require.NoError(t, ComparePassword(first, "pw123"))
		require.NoError(t, ComparePassword(second, "pw123"))
	})

	t.Run("Wrong Password Fails", func(t *testing.T) {
		digest, err := HashPassword("pw123", bcrypt.MinCost)
		require.NoError(t, err)
		require.Error(t, ComparePassword(digest, "pw124"))
	})

	t.Run("Malformed Digest Is A Mismatch Not A Panic", func(t *testing.T) {
		require.NotPanics(t, func() {
			require.Error(t, ComparePassword("not-a-bcrypt-digest", "pw123"))
		})
	})
}
