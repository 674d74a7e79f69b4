package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type GameUseCase interface {
	NewGame(ctx context.Context, mode string, playerFirst bool) (*entity.GameView, error)
	MakeMove(ctx context.Context, row, col int, view *entity.GameView) (*entity.GameView, error)
	GetAIMove(ctx context.Context, view *entity.GameView) (*entity.GameView, error)

	GetGame(ctx context.Context, id string) (*entity.GameView, error)
	EndGame(ctx context.Context, id string) error
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.GameView) error
	GetByID(ctx context.Context, id string) (*entity.GameView, error)
	DeleteByID(ctx context.Context, id string) error
}

type gameUseCase struct {
	logger   *slog.Logger
	gameRepo gameRepo
}

func NewGameUseCase(logger *slog.Logger, gameRepo gameRepo) GameUseCase {
	return &gameUseCase{
		logger:   logger.With("component", "game_usecase"),
		gameRepo: gameRepo,
	}
}

// NewGame starts a game. The first-move flag is only passed on in AI mode.
func (that *gameUseCase) NewGame(ctx context.Context, mode string, playerFirst bool) (*entity.GameView, error) {
	gameMode := entity.ParseMode(mode)

	var first *bool
	if gameMode == entity.PlayerVsAI {
		first = &playerFirst
	}

	game := entity.NewGame(gameMode, first)
	view := entity.NewGameView(uuid.NewString(), game, tictactoe.AIMark)

	that.saveSnapshot(ctx, view)

	return view, nil
}

// MakeMove applies the human move and, when the AI is due next, answers it in the same call.
func (that *gameUseCase) MakeMove(ctx context.Context, row, col int, view *entity.GameView) (*entity.GameView, error) {
	game, err := view.Game()
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}

	if err = game.ApplyMove(row, col); err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if game.IsAITurn(tictactoe.AIMark) {
		if err = that.applyAIMove(game); err != nil {
			return nil, fmt.Errorf("failed to answer move: %w", err)
		}
	}

	updated := entity.NewGameView(view.ID, game, tictactoe.AIMark)
	that.saveSnapshot(ctx, updated)

	return updated, nil
}

func (that *gameUseCase) GetAIMove(ctx context.Context, view *entity.GameView) (*entity.GameView, error) {
	game, err := view.Game()
	if err != nil {
		return nil, fmt.Errorf("failed to read game state: %w", err)
	}

	if err = that.applyAIMove(game); err != nil {
		return nil, fmt.Errorf("failed to make AI move: %w", err)
	}

	updated := entity.NewGameView(view.ID, game, tictactoe.AIMark)
	that.saveSnapshot(ctx, updated)

	return updated, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, id string) (*entity.GameView, error) {
	view, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return view, nil
}

func (that *gameUseCase) EndGame(ctx context.Context, id string) error {
	if err := that.gameRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	that.logger.Info("game deleted", "gameID", id)

	return nil
}

func (that *gameUseCase) applyAIMove(game *entity.Game) error {
	move, ok := tictactoe.BestMove(*game)
	if !ok {
		return apperror.ErrNoLegalMove
	}

	return game.ApplyMove(move.Row, move.Col)
}

// saveSnapshot stores the latest view for resuming. A failed save does not fail the move.
func (that *gameUseCase) saveSnapshot(ctx context.Context, view *entity.GameView) {
	if view.ID == "" {
		return
	}

	log := that.logger.With("method", "saveSnapshot", "gameID", view.ID)

	if err := that.gameRepo.CreateOrUpdate(ctx, view); err != nil {
		log.Error("failed to save game snapshot", "error", err)
	}
}
