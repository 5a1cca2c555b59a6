package console

import (
	"strings"

	"rps-game-system/models"
	"rps-game-system/services"

	"github.com/gosimple/unidecode"
)

var moveAliases = map[string]models.Move{
	"piedra":   models.MoveRock,
	"rock":     models.MoveRock,
	"1":        models.MoveRock,
	"papel":    models.MovePaper,
	"paper":    models.MovePaper,
	"2":        models.MovePaper,
	"tijera":   models.MoveScissors,
	"tijeras":  models.MoveScissors,
	"scissors": models.MoveScissors,
	"3":        models.MoveScissors,
}

// ParseMove reads a move typed by a player. Case and accents are ignored, so
// "Tíjera" and "PIEDRA" are accepted, as are the English names and the menu
// numbers 1-3.
func ParseMove(input string) (models.Move, error) {
	key := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(input)))
	if m, ok := moveAliases[key]; ok {
		return m, nil
	}
	return "", services.ErrInvalidMove
}
