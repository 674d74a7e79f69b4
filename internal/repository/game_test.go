package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func newTestView(id string) *entity.GameView {
	game := entity.NewGame(entity.PlayerVsAI, nil)
	_ = game.ApplyMove(1, 1)

	return entity.NewGameView(id, game, entity.Second)
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, time.Hour)

	// Given: a game view with an ID
	view := newTestView("123")

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, view)

	// Then: no error is returned and the key expires with the configured TTL
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game view
		view := newTestView("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, view))

		// When: GetByID is called with its ID
		retrievedGame, err := gameRepo.GetByID(ctx, view.ID)

		// Then: the stored view comes back unchanged, empty cells included
		require.NoError(t, err)
		assert.Equal(t, view, retrievedGame)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with an unknown ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("DeleteByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game view
		view := newTestView("123")
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, view))

		// When: DeleteByID is called
		err := gameRepo.DeleteByID(ctx, view.ID)

		// Then: the view is gone
		require.NoError(t, err)

		_, err = gameRepo.GetByID(ctx, view.ID)
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("DeleteByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: DeleteByID is called with an unknown ID
		err := gameRepo.DeleteByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
