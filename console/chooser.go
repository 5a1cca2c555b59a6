package console

import (
	"math/rand"
	"time"

	"rps-game-system/models"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_chooser.go rps-game-system/console MoveChooser

// MoveChooser picks the machine's move for a round.
type MoveChooser interface {
	Choose() models.Move
}

// RandomChooser picks uniformly among models.Moves.
type RandomChooser struct {
	random *rand.Rand
}

// ChooserConfig configures a RandomChooser.
type ChooserConfig struct {
	// Optional seed for reproducible games
	Seed int64
}

func NewRandomChooser(cfg *ChooserConfig) *RandomChooser {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	return &RandomChooser{
		random: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomChooser) Choose() models.Move {
	return models.Moves[r.random.Intn(len(models.Moves))]
}
