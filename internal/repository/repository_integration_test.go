//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkkmani/musicbackend/internal/database"
	"github.com/mkkmani/musicbackend/internal/logger"
	"github.com/mkkmani/musicbackend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestPool starts a disposable Postgres, applies the embedded schema and
// returns a pool connected to it.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("music_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.MigrateUp(connStr, logger.Nop()))

	pool, err := database.OpenPostgres(ctx, connStr, 8, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func newPrincipal(name, mobile, email string) *model.Principal {
	return &model.Principal{Name: name, Mobile: mobile, Email: email, PasswordHash: "$2a$04$hash"}
}

func TestPrincipalRepository(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	students := NewStudentRepository(pool)
	admins := NewAdminRepository(pool)

	t.Run("create and look up", func(t *testing.T) {
		p := newPrincipal("Asha", "5550001", "asha@example.com")
		require.NoError(t, students.Create(ctx, p))
		assert.NotZero(t, p.ID)
		assert.Equal(t, model.RoleStudent, p.Role)

		byEmail, err := students.GetByIdentifier(ctx, "asha@example.com")
		require.NoError(t, err)
		assert.Equal(t, p.ID, byEmail.ID)

		byMobile, err := students.GetByIdentifier(ctx, "5550001")
		require.NoError(t, err)
		assert.Equal(t, p.ID, byMobile.ID)

		byID, err := students.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "$2a$04$hash", byID.PasswordHash)
	})

	t.Run("duplicate mobile or email", func(t *testing.T) {
		err := students.Create(ctx, newPrincipal("Other", "5550001", "other@example.com"))
		assert.ErrorIs(t, err, ErrDuplicate)

		err = students.Create(ctx, newPrincipal("Other", "5550999", "asha@example.com"))
		assert.ErrorIs(t, err, ErrDuplicate)

		exists, err := students.ExistsByIdentifiers(ctx, "0000000", "asha@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = students.ExistsByIdentifiers(ctx, "0000000", "nobody@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("roles are stored separately", func(t *testing.T) {
		_, err := admins.GetByIdentifier(ctx, "asha@example.com")
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, admins.Create(ctx, newPrincipal("Asha", "5550001", "asha@example.com")))
	})

	t.Run("create if empty", func(t *testing.T) {
		created, err := admins.CreateIfEmpty(ctx, newPrincipal("Root", "5550100", "root@example.com"))
		require.NoError(t, err)
		assert.False(t, created)

		_, err = admins.GetByIdentifier(ctx, "root@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent registrations keep one row", func(t *testing.T) {
		const workers = 8
		var wg sync.WaitGroup
		errs := make([]error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = students.Create(ctx, newPrincipal("Race", "5557777", "race@example.com"))
			}(i)
		}
		wg.Wait()

		var ok, dup int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, ErrDuplicate):
				dup++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, workers-1, dup)
	})
}

func TestContentRepositories(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	videos := NewVideoRepository(pool)
	gallery := NewGalleryRepository(pool)

	list, err := videos.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, title := range []string{"Raga Basics", "raga advanced", "Tala Drills"} {
		require.NoError(t, videos.Create(ctx, &model.Video{Title: title, Link: "https://v/" + title}))
	}

	list, err = videos.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Raga Basics", list[0].Title)

	found, err := videos.SearchByTitle(ctx, "Raga")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Raga Basics", found[0].Title)

	found, err = videos.SearchByTitle(ctx, "100%")
	require.NoError(t, err)
	assert.Empty(t, found)

	img := &model.GalleryImage{ImageURL: "https://img/1.png"}
	require.NoError(t, gallery.Create(ctx, img))
	assert.NotZero(t, img.ID)

	images, err := gallery.List(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "https://img/1.png", images[0].ImageURL)
}

func TestPrincipalRepository_ConcurrentCreateIfEmpty(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	admins := NewAdminRepository(pool)

	const workers = 8
	var wg sync.WaitGroup
	created := make([]bool, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created[i], errs[i] = admins.CreateIfEmpty(ctx, newPrincipal("Root", "5550100", "root@example.com"))
		}(i)
	}
	wg.Wait()

	var n int
	for i := range errs {
		require.NoError(t, errs[i])
		if created[i] {
			n++
		}
	}
	assert.Equal(t, 1, n)

	var rows int
	require.NoError(t, pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&rows))
	assert.Equal(t, 1, rows)
}
