package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	mockedUseCase "github.com/rocketscienceinc/tictactoe-engine/mocks/usecase"
)

var errRedisDown = errors.New("redis down")

const (
	x = entity.First
	o = entity.Second
	e = entity.Empty
)

func newTestUseCase(t *testing.T) (*mockedUseCase.MockgameRepo, GameUseCase) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockGameRepo := mockedUseCase.NewMockgameRepo(t)

	return mockGameRepo, NewGameUseCase(logger, mockGameRepo)
}

func TestGameUseCase_NewGame(t *testing.T) {
	ctx := context.Background()

	t.Run("AI moves first", func(t *testing.T) {
		// Given: a store that accepts snapshots
		mockGameRepo, useCase := newTestUseCase(t)
		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(nil).
			Once()

		// When: an AI game is created with the AI opening
		view, err := useCase.NewGame(ctx, "ai", false)

		// Then: the AI is to move on an empty board
		require.NoError(t, err)
		assert.NotEmpty(t, view.ID)
		assert.Equal(t, entity.PlayerVsAI, view.Mode)
		assert.Equal(t, o, view.Turn)
		assert.Equal(t, entity.StatusInProgress, view.Status)
		assert.True(t, view.IsAITurn)
	})

	t.Run("Human moves first", func(t *testing.T) {
		mockGameRepo, useCase := newTestUseCase(t)
		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(nil).
			Once()

		view, err := useCase.NewGame(ctx, "ai", true)

		require.NoError(t, err)
		assert.Equal(t, x, view.Turn)
		assert.False(t, view.IsAITurn)
	})

	t.Run("Two-player mode ignores the first-move flag", func(t *testing.T) {
		mockGameRepo, useCase := newTestUseCase(t)
		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(nil).
			Once()

		view, err := useCase.NewGame(ctx, "player", false)

		require.NoError(t, err)
		assert.Equal(t, entity.PlayerVsPlayer, view.Mode)
		assert.Equal(t, x, view.Turn)
		assert.False(t, view.IsAITurn)
	})

	t.Run("Store failure does not fail the game", func(t *testing.T) {
		// Given: a store that is down
		mockGameRepo, useCase := newTestUseCase(t)
		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(errRedisDown).
			Once()

		// When: a game is created
		view, err := useCase.NewGame(ctx, "player", true)

		// Then: the game is still returned
		require.NoError(t, err)
		assert.NotNil(t, view)
	})
}

func TestGameUseCase_MakeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Two-player move only advances one ply", func(t *testing.T) {
		// Given: a fresh two-player game
		mockGameRepo, useCase := newTestUseCase(t)
		view := &entity.GameView{ID: "g1", Turn: x, Mode: entity.PlayerVsPlayer}

		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.MatchedBy(func(v *entity.GameView) bool {
				return v.ID == "g1" && v.Board[1][1] == x
			})).
			Return(nil).
			Once()

		// When: First plays the centre
		updated, err := useCase.MakeMove(ctx, 1, 1, view)

		// Then: only the human mark is placed and Second is to move
		require.NoError(t, err)
		assert.Equal(t, x, updated.Board[1][1])
		assert.Equal(t, o, updated.Turn)
		assert.False(t, updated.IsAITurn)
		assert.Equal(t, e, view.Board[1][1], "input view must not change")
	})

	t.Run("AI answers the human move in the same call", func(t *testing.T) {
		// Given: a fresh AI game with the human opening
		mockGameRepo, useCase := newTestUseCase(t)
		view := &entity.GameView{ID: "g2", Turn: x, Mode: entity.PlayerVsAI}

		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(nil).
			Once()

		// When: the human takes a corner
		updated, err := useCase.MakeMove(ctx, 0, 0, view)

		// Then: the AI replies in the centre, the only non-losing answer
		require.NoError(t, err)
		assert.Equal(t, x, updated.Board[0][0])
		assert.Equal(t, o, updated.Board[1][1])
		assert.Equal(t, x, updated.Turn)
		assert.Equal(t, entity.StatusInProgress, updated.Status)
		assert.False(t, updated.IsAITurn)
	})

	t.Run("AI does not move after the human wins", func(t *testing.T) {
		// Given: the human can complete the top row
		mockGameRepo, useCase := newTestUseCase(t)
		view := &entity.GameView{
			ID:    "g3",
			Board: [3][3]entity.Mark{{x, x, e}, {o, o, e}, {e, e, e}},
			Turn:  x,
			Mode:  entity.PlayerVsAI,
		}

		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(nil).
			Once()

		// When: the human wins
		updated, err := useCase.MakeMove(ctx, 0, 2, view)

		// Then: the game is over and the AI did not play
		require.NoError(t, err)
		assert.Equal(t, entity.StatusFirstWins, updated.Status)
		assert.Equal(t, e, updated.Board[1][2])
		assert.Equal(t, o, updated.Turn)
		assert.False(t, updated.IsAITurn)
	})

	t.Run("View without ID is not stored", func(t *testing.T) {
		// Given: a client-built state without an ID
		_, useCase := newTestUseCase(t)
		view := &entity.GameView{Turn: x, Mode: entity.PlayerVsPlayer}

		// When: a move is made
		updated, err := useCase.MakeMove(ctx, 2, 2, view)

		// Then: it succeeds without touching the store
		require.NoError(t, err)
		assert.Equal(t, x, updated.Board[2][2])
	})

	t.Run("Out of bounds move is rejected", func(t *testing.T) {
		_, useCase := newTestUseCase(t)
		view := &entity.GameView{ID: "g4", Turn: x, Mode: entity.PlayerVsAI}

		updated, err := useCase.MakeMove(ctx, 3, -1, view)

		require.ErrorIs(t, err, apperror.ErrOutOfBounds)
		assert.Nil(t, updated)
	})

	t.Run("Occupied cell is rejected", func(t *testing.T) {
		_, useCase := newTestUseCase(t)
		view := &entity.GameView{
			ID:    "g5",
			Board: [3][3]entity.Mark{{x, e, e}, {e, o, e}, {e, e, e}},
			Turn:  x,
			Mode:  entity.PlayerVsAI,
		}

		updated, err := useCase.MakeMove(ctx, 1, 1, view)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		assert.Nil(t, updated)
	})

	t.Run("Invalid state is rejected", func(t *testing.T) {
		_, useCase := newTestUseCase(t)
		view := &entity.GameView{ID: "g6", Mode: entity.PlayerVsAI}

		updated, err := useCase.MakeMove(ctx, 0, 0, view)

		require.ErrorIs(t, err, apperror.ErrInvalidState)
		assert.Nil(t, updated)
	})
}

func TestGameUseCase_GetAIMove(t *testing.T) {
	ctx := context.Background()

	t.Run("AI opening takes the first cell", func(t *testing.T) {
		// Given: a new AI game where the AI moves first
		mockGameRepo, useCase := newTestUseCase(t)
		mockGameRepo.EXPECT().
			CreateOrUpdate(ctx, mock.AnythingOfType("*entity.GameView")).
			Return(nil).
			Twice()

		view, err := useCase.NewGame(ctx, "ai", false)
		require.NoError(t, err)
		require.True(t, view.IsAITurn)

		// When: the AI move is requested
		updated, err := useCase.GetAIMove(ctx, view)

		// Then: exactly one Second mark is placed at (0, 0) and First is to move
		require.NoError(t, err)
		assert.Equal(t, view.ID, updated.ID)
		assert.Equal(t, o, updated.Board[0][0])
		assert.Equal(t, x, updated.Turn)
		assert.False(t, updated.IsAITurn)

		occupied := 0
		for _, row := range updated.Board {
			for _, cell := range row {
				if cell != e {
					occupied++
				}
			}
		}
		assert.Equal(t, 1, occupied)
	})

	t.Run("Full board has no legal move", func(t *testing.T) {
		_, useCase := newTestUseCase(t)
		view := &entity.GameView{
			ID:    "g7",
			Board: [3][3]entity.Mark{{x, o, x}, {x, o, o}, {o, x, x}},
			Turn:  o,
			Mode:  entity.PlayerVsAI,
		}

		updated, err := useCase.GetAIMove(ctx, view)

		require.ErrorIs(t, err, apperror.ErrNoLegalMove)
		assert.Nil(t, updated)
	})
}

func TestGameUseCase_GetGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns stored game", func(t *testing.T) {
		mockGameRepo, useCase := newTestUseCase(t)
		stored := &entity.GameView{ID: "g8", Turn: x, Mode: entity.PlayerVsAI, Status: entity.StatusInProgress}

		mockGameRepo.EXPECT().
			GetByID(ctx, "g8").
			Return(stored, nil).
			Once()

		view, err := useCase.GetGame(ctx, "g8")

		require.NoError(t, err)
		assert.Equal(t, stored, view)
	})

	t.Run("Returns ErrGameNotFound", func(t *testing.T) {
		mockGameRepo, useCase := newTestUseCase(t)

		mockGameRepo.EXPECT().
			GetByID(ctx, "missing").
			Return((*entity.GameView)(nil), apperror.ErrGameNotFound).
			Once()

		view, err := useCase.GetGame(ctx, "missing")

		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, view)
	})
}

func TestGameUseCase_EndGame(t *testing.T) {
	ctx := context.Background()

	t.Run("Deletes the snapshot", func(t *testing.T) {
		mockGameRepo, useCase := newTestUseCase(t)

		mockGameRepo.EXPECT().
			DeleteByID(ctx, "g9").
			Return(nil).
			Once()

		require.NoError(t, useCase.EndGame(ctx, "g9"))
	})

	t.Run("Propagates store errors", func(t *testing.T) {
		mockGameRepo, useCase := newTestUseCase(t)

		mockGameRepo.EXPECT().
			DeleteByID(ctx, "g10").
			Return(errRedisDown).
			Once()

		err := useCase.EndGame(ctx, "g10")

		require.ErrorIs(t, err, errRedisDown)
	})
}
