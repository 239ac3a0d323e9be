package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/expense-tracker/internal/domain"
)

func seedUser(username, email string) *domain.User {
	return &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "x",
		Role:         domain.RoleAdmin,
	}
}

func TestMemoryUserRepositoryCreateIfAbsent(t *testing.T) {
	t.Run("First Insert Wins", func(t *testing.T) {
		repo := NewMemoryUserRepository()

		created, err := repo.CreateIfAbsent(context.Background(), seedUser("admin", "admin@example.com"))
		require.NoError(t, err)
		require.True(t, created)

		created, err = repo.CreateIfAbsent(context.Background(), seedUser("admin", "admin@example.com"))
		require.NoError(t, err)
		require.False(t, created)

		all, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("Matches On Email Case Insensitively", func(t *testing.T) {
		repo := NewMemoryUserRepository()

		created, err := repo.CreateIfAbsent(context.Background(), seedUser("admin", "admin@example.com"))
		require.NoError(t, err)
		require.True(t, created)

		created, err = repo.CreateIfAbsent(context.Background(), seedUser("other", "Admin@Example.COM"))
		require.NoError(t, err)
		require.False(t, created)
	})

	t.Run("Exactly One Winner Under Contention", func(t *testing.T) {
		const (
			goroutines = 32
			rounds     = 200
		)

		for round := 0; round < rounds; round++ {
			repo := NewMemoryUserRepository()

			start := make(chan struct{})
			results := make(chan bool, goroutines)
			errs := make(chan error, goroutines)

			var wg sync.WaitGroup
			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					created, err := repo.CreateIfAbsent(context.Background(), seedUser("admin", "admin@example.com"))
					results <- created
					errs <- err
				}()
			}
			close(start)
			wg.Wait()
			close(results)
			close(errs)

			for err := range errs {
				require.NoError(t, err)
			}
			winners := 0
			for created := range results {
				if created {
					winners++
				}
			}
			require.Equal(t, 1, winners, "round %d", round)

			all, err := repo.List(context.Background())
			require.NoError(t, err)
			require.Len(t, all, 1, "round %d", round)
		}
	})
}
