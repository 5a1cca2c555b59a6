package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rps-game-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxHandleAttempts bounds the suffixes tried when two names share a slug.
const maxHandleAttempts = 5

type PlayerService struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewPlayerService(db *gorm.DB, logger *slog.Logger) *PlayerService {
	return &PlayerService{DB: db, Logger: logger}
}

// NormalizeName trims the name and puts it in NFC so "Máquina" typed with a
// combining accent matches the stored one.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// MakeHandle derives the URL handle for a player name. Names with nothing
// transliterable get a stable id-based handle instead.
func MakeHandle(name string) string {
	if h := slug.Make(name); h != "" {
		return h
	}
	return "jugador-" + uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()[:8]
}

// GetOrCreate returns the player called name, creating it with score 0 if
// absent. An existing player is returned unmodified, whatever kind is passed.
func (s *PlayerService) GetOrCreate(ctx context.Context, name string, kind models.PlayerKind) (*models.Player, error) {
	name = NormalizeName(name)
	if name == "" {
		return nil, ErrInvalidPlayerName
	}
	if !kind.Valid() {
		return nil, ErrInvalidPlayerKind
	}

	var player models.Player
	created := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("name = ?", name).First(&player).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		base := MakeHandle(name)
		for attempt := 1; attempt <= maxHandleAttempts; attempt++ {
			handle := base
			if attempt > 1 {
				handle = fmt.Sprintf("%s-%d", base, attempt)
			}

			player = models.Player{Name: name, Handle: handle, Kind: kind}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&player)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				created = true
				return nil
			}

			// Either a concurrent creator won the race for this name, or
			// another name already owns the handle.
			player = models.Player{}
			err := tx.Where("name = ?", name).First(&player).Error
			if err == nil {
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		return fmt.Errorf("no free handle for %q after %d attempts", name, maxHandleAttempts)
	})
	if err != nil {
		s.Logger.Error("get or create player failed", "name", name, "error", err)
		return nil, persistErr("get or create player", err)
	}

	if created {
		s.Logger.Info("player created", "player_id", player.ID, "name", player.Name, "kind", player.Kind)
	}
	return &player, nil
}

// GetByHandle looks a player up by URL handle.
func (s *PlayerService) GetByHandle(ctx context.Context, handle string) (*models.Player, error) {
	var player models.Player
	err := s.DB.WithContext(ctx).Where("handle = ?", handle).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, persistErr("get player", err)
	}
	return &player, nil
}
