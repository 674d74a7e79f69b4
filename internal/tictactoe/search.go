package tictactoe

import (
	"math"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// AIMark is the side the search optimises for. Scores are always from its point of view.
const AIMark = entity.Second

const winScore = 10

// Move is a board coordinate.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// BestMove runs a full minimax search and returns the optimal move for the side to move.
// The second result is false only when the board has no free cell.
// The game passed in is never modified.
//
// Cells are tried in row-major order and only a strictly better score replaces the
// current choice, so the earliest of equally good cells wins.
func BestMove(game entity.Game) (Move, bool) {
	maximizing := game.Turn == AIMark

	bestScore := initScore(maximizing)
	best, found := Move{}, false

	for cell, mark := range game.Board {
		if mark != entity.Empty {
			continue
		}

		child := game
		row, col := cell/entity.BoardSize, cell%entity.BoardSize
		if err := child.ApplyMove(row, col); err != nil {
			continue
		}

		score := minimax(child, 0)
		if !found || improves(maximizing, score, bestScore) {
			bestScore = score
			best, found = Move{Row: row, Col: col}, true
		}
	}

	return best, found
}

// minimax scores a position reached depth plies after the root move.
func minimax(game entity.Game, depth int) int {
	switch game.Status() {
	case entity.StatusFirstWins:
		return -winScore + depth
	case entity.StatusSecondWins:
		return winScore - depth
	case entity.StatusDraw:
		return 0
	case entity.StatusInProgress:
	}

	maximizing := game.Turn == AIMark
	bestScore := initScore(maximizing)

	for cell, mark := range game.Board {
		if mark != entity.Empty {
			continue
		}

		child := game
		if err := child.ApplyMove(cell/entity.BoardSize, cell%entity.BoardSize); err != nil {
			continue
		}

		if score := minimax(child, depth+1); improves(maximizing, score, bestScore) {
			bestScore = score
		}
	}

	return bestScore
}

func improves(maximizing bool, score, best int) bool {
	if maximizing {
		return score > best
	}
	return score < best
}

func initScore(maximizing bool) int {
	if maximizing {
		return math.MinInt
	}
	return math.MaxInt
}
