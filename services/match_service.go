package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rps-game-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchService drives a match from start to a terminal status. Every mutating
// call runs in its own transaction and leaves nothing behind when it fails.
type MatchService struct {
	DB     *gorm.DB
	Logger *slog.Logger

	now func() time.Time
}

func NewMatchService(db *gorm.DB, logger *slog.Logger) *MatchService {
	return &MatchService{DB: db, Logger: logger, now: time.Now}
}

// ResolveRound returns the outcome of playerMove against opponentMove, from
// the player's side.
func ResolveRound(playerMove, opponentMove models.Move) models.Outcome {
	switch {
	case playerMove == opponentMove:
		return models.OutcomeDraw
	case playerMove.Beats(opponentMove):
		return models.OutcomeWon
	default:
		return models.OutcomeLost
	}
}

// Tally counts won and lost rounds; draws count for neither side.
func Tally(outcomes []models.Outcome) (won, lost int) {
	for _, o := range outcomes {
		switch o {
		case models.OutcomeWon:
			won++
		case models.OutcomeLost:
			lost++
		}
	}
	return won, lost
}

// StartMatch persists a new IN_PROGRESS match between two distinct players.
func (s *MatchService) StartMatch(ctx context.Context, playerA, playerB *models.Player) (*models.Match, error) {
	if playerA == nil || playerB == nil || playerA.ID == 0 || playerB.ID == 0 || playerA.ID == playerB.ID {
		return nil, ErrInvalidPlayers
	}

	match := &models.Match{
		Status:      models.MatchStatusInProgress,
		PlayerOneID: playerA.ID,
		PlayerTwoID: playerB.ID,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(match).Error
	})
	if err != nil {
		s.Logger.Error("start match failed", "player_one", playerA.Name, "player_two", playerB.Name, "error", err)
		return nil, persistErr("start match", err)
	}

	s.Logger.Info("match started", "match_id", match.ID, "player_one", playerA.Name, "player_two", playerB.Name)
	return match, nil
}

// RecordRound resolves one exchange and stores it against match. The match
// must be IN_PROGRESS with fewer than models.RoundsPerMatch rounds, and player
// must be one of its participants.
func (s *MatchService) RecordRound(ctx context.Context, match *models.Match, player *models.Player, playerMove, opponentMove models.Move) (models.Outcome, error) {
	if !playerMove.Valid() || !opponentMove.Valid() {
		return "", ErrInvalidMove
	}
	if match == nil || player == nil || !match.HasPlayer(player.ID) {
		return "", ErrPlayerNotInMatch
	}

	outcome := ResolveRound(playerMove, opponentMove)
	round := &models.Round{
		MatchID:      match.ID,
		PlayerID:     player.ID,
		Move:         playerMove,
		OpponentMove: opponentMove,
		Outcome:      outcome,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireInProgress(tx, match.ID); err != nil {
			return err
		}

		var played int64
		if err := tx.Model(&models.Round{}).Where("match_id = ?", match.ID).Count(&played).Error; err != nil {
			return err
		}
		if played >= models.RoundsPerMatch {
			return ErrRoundLimitReached
		}

		return tx.Omit(clause.Associations).Create(round).Error
	})
	if err != nil {
		s.Logger.Error("record round failed", "match_id", match.ID, "player_id", player.ID, "error", err)
		return "", classify("record round", err)
	}

	s.Logger.Info("round recorded",
		"match_id", match.ID, "round_id", round.ID, "player_id", player.ID,
		"move", playerMove, "opponent_move", opponentMove, "outcome", outcome)
	return outcome, nil
}

// FinishMatch awards match to winner and adds one point to the winner's
// score. The match must hold all of its rounds. A second call on the same
// match fails with ErrMatchNotInProgress.
func (s *MatchService) FinishMatch(ctx context.Context, match *models.Match, winner *models.Player) error {
	if match == nil || winner == nil || !match.HasPlayer(winner.ID) {
		return ErrWinnerNotInMatch
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := completedOutcomes(tx, match.ID, winner.ID); err != nil {
			return err
		}
		return awardMatch(tx, match.ID, winner.ID)
	})
	if err != nil {
		s.Logger.Error("finish match failed", "match_id", match.ID, "winner_id", winner.ID, "error", err)
		return classify("finish match", err)
	}

	markFinished(match, winner)
	s.Logger.Info("match finished", "match_id", match.ID, "winner", winner.Name, "score", winner.Score)
	return nil
}

// AbandonMatch closes match as ABANDONED. The winner stays unset. Rounds
// may be missing.
func (s *MatchService) AbandonMatch(ctx context.Context, match *models.Match) error {
	return s.closeWithoutWinner(ctx, match, models.MatchStatusAbandoned, "abandon match")
}

// DrawMatch closes match as TIED when neither side won more rounds. The match
// must hold all of its rounds.
func (s *MatchService) DrawMatch(ctx context.Context, match *models.Match) error {
	return s.closeWithoutWinner(ctx, match, models.MatchStatusTied, "draw match")
}

// ConcludeMatch settles a match from its stored rounds, read from player's
// side. More wins finishes it for player, more losses for opponent, and a
// level count ties it. The returned winner is nil on a tie.
func (s *MatchService) ConcludeMatch(ctx context.Context, match *models.Match, player, opponent *models.Player) (*models.Player, error) {
	if match == nil || player == nil || opponent == nil || player.ID == opponent.ID ||
		!match.HasPlayer(player.ID) || !match.HasPlayer(opponent.ID) {
		return nil, ErrPlayerNotInMatch
	}

	var winner *models.Player
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		outcomes, err := completedOutcomes(tx, match.ID, player.ID)
		if err != nil {
			return err
		}

		won, lost := Tally(outcomes)
		switch {
		case won > lost:
			winner = player
		case lost > won:
			winner = opponent
		default:
			return closeMatch(tx, match.ID, models.MatchStatusTied, nil)
		}
		return awardMatch(tx, match.ID, winner.ID)
	})
	if err != nil {
		s.Logger.Error("conclude match failed", "match_id", match.ID, "error", err)
		return nil, classify("conclude match", err)
	}

	if winner == nil {
		match.Status = models.MatchStatusTied
		match.WinnerID = nil
		s.Logger.Info("match closed", "match_id", match.ID, "status", match.Status)
		return nil, nil
	}
	markFinished(match, winner)
	s.Logger.Info("match finished", "match_id", match.ID, "winner", winner.Name, "score", winner.Score)
	return winner, nil
}

// AbandonStaleMatches abandons every IN_PROGRESS match created more than
// olderThan ago and returns how many it closed. Failures on single matches
// are logged and skipped.
func (s *MatchService) AbandonStaleMatches(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)

	var stale []models.Match
	err := s.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.MatchStatusInProgress, cutoff).
		Order("id ASC").
		Find(&stale).Error
	if err != nil {
		return 0, persistErr("find stale matches", err)
	}

	abandoned := 0
	for i := range stale {
		if err := s.AbandonMatch(ctx, &stale[i]); err != nil {
			if errors.Is(err, ErrMatchNotInProgress) {
				continue
			}
			s.Logger.Warn("could not abandon stale match", "match_id", stale[i].ID, "error", err)
			continue
		}
		abandoned++
	}
	return abandoned, nil
}

func (s *MatchService) closeWithoutWinner(ctx context.Context, match *models.Match, status models.MatchStatus, op string) error {
	if match == nil {
		return ErrMatchNotFound
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if status != models.MatchStatusAbandoned {
			if _, err := completedOutcomes(tx, match.ID, match.PlayerOneID); err != nil {
				return err
			}
		}
		return closeMatch(tx, match.ID, status, nil)
	})
	if err != nil {
		s.Logger.Error(op+" failed", "match_id", match.ID, "error", err)
		return classify(op, err)
	}

	match.Status = status
	match.WinnerID = nil
	s.Logger.Info("match closed", "match_id", match.ID, "status", status)
	return nil
}

// completedOutcomes loads the outcomes of an IN_PROGRESS match's rounds seen
// from playerID's side. It fails unless all models.RoundsPerMatch rounds are
// stored.
func completedOutcomes(tx *gorm.DB, matchID, playerID uint) ([]models.Outcome, error) {
	if err := requireInProgress(tx, matchID); err != nil {
		return nil, err
	}

	var rounds []models.Round
	if err := tx.Select("id", "player_id", "outcome").Where("match_id = ?", matchID).Order("id ASC").Find(&rounds).Error; err != nil {
		return nil, err
	}
	if len(rounds) < models.RoundsPerMatch {
		return nil, ErrRoundsIncomplete
	}

	outcomes := make([]models.Outcome, 0, len(rounds))
	for _, r := range rounds {
		if r.PlayerID == playerID {
			outcomes = append(outcomes, r.Outcome)
		} else {
			outcomes = append(outcomes, r.Outcome.Reverse())
		}
	}
	return outcomes, nil
}

// awardMatch closes the match as FINISHED for winnerID and adds its point.
func awardMatch(tx *gorm.DB, matchID, winnerID uint) error {
	if err := closeMatch(tx, matchID, models.MatchStatusFinished, &winnerID); err != nil {
		return err
	}

	res := tx.Model(&models.Player{}).
		Where("id = ?", winnerID).
		UpdateColumn("score", gorm.Expr("score + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

// markFinished mirrors a committed finish onto the caller's structs.
func markFinished(match *models.Match, winner *models.Player) {
	winnerID := winner.ID
	match.Status = models.MatchStatusFinished
	match.WinnerID = &winnerID
	winner.Score++
}

// closeMatch moves an IN_PROGRESS match to status. The status guard sits in
// the UPDATE itself so a concurrent close can't slip in between read and write.
func closeMatch(tx *gorm.DB, matchID uint, status models.MatchStatus, winnerID *uint) error {
	res := tx.Model(&models.Match{}).
		Where("id = ? AND status = ?", matchID, models.MatchStatusInProgress).
		Updates(map[string]any{"status": status, "winner_id": winnerID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if err := requireInProgress(tx, matchID); err != nil {
			return err
		}
		return ErrMatchNotInProgress
	}
	return nil
}

func requireInProgress(tx *gorm.DB, matchID uint) error {
	var current models.Match
	err := tx.Select("id", "status").First(&current, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMatchNotFound
	}
	if err != nil {
		return err
	}
	if current.Status != models.MatchStatusInProgress {
		return ErrMatchNotInProgress
	}
	return nil
}

// classify keeps precondition errors as they are and wraps everything else
// as a PersistenceError.
func classify(op string, err error) error {
	var gameErr GameError
	if errors.As(err, &gameErr) {
		return gameErr
	}
	return persistErr(op, err)
}
