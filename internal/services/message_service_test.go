package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hypernova-labs/cashier-service/internal/database"
	"github.com/hypernova-labs/cashier-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	service := NewMessageService(database.NewMessageRepository(env.store, env.logger), env.logger)
	service.now = env.clock.Now

	_, err := service.Save(ctx, " ")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = service.Save(ctx, "primero")
	require.NoError(t, err)
	env.clock.Advance(time.Second)
	saved, err := service.Save(ctx, "segundo")
	require.NoError(t, err)
	assert.Equal(t, env.clock.Now(), saved.Timestamp)

	messages, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "segundo", messages[0].Message)
}

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seedData.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newSeedService(env *testEnv, path string) (*SeedService, *database.MessageRepository) {
	messages := database.NewMessageRepository(env.store, env.logger)
	seed := NewSeedService(path, messages, env.products, env.service, env.logger)
	seed.now = env.clock.Now
	return seed, messages
}

func TestSeedInsertsOnlyIntoEmptyStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	path := writeSeedFile(t, `{
		"seedData": {
			"messages": [
				{"message": "Bienvenido", "minutesAgo": 30},
				{"message": "Recuerde cerrar caja", "minutesAgo": 5}
			],
			"products": [
				{"barCode": "780", "name": "Leche", "price": 990, "stock": 12},
				{"name": "   ", "price": 1}
			]
		}
	}`)
	seed, messages := newSeedService(env, path)

	seed.Seed(ctx)
	seed.Seed(ctx)

	list, err := messages.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Recuerde cerrar caja", list[0].Message)
	assert.True(t, env.clock.Now().Add(-5*time.Minute).Equal(list[0].Timestamp))

	products, err := env.service.GetActive(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Leche", products[0].Name)
	assert.Equal(t, models.DefaultProductType, products[0].ProductType)
}

func TestSeedDisabledMissingOrInvalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, path := range []string{
		writeSeedFile(t, `{"seedData":{"enabled":false,"messages":[{"message":"x"}]}}`),
		writeSeedFile(t, `{not json`),
		filepath.Join(t.TempDir(), "missing.json"),
	} {
		seed, messages := newSeedService(env, path)
		seed.Seed(ctx)

		count, err := messages.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	}
}
