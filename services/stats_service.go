package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"rps-game-system/models"

	"gorm.io/gorm"
)

// DefaultRankingSize is how many players the ranking returns by default.
const DefaultRankingSize = 3

// StatsService answers aggregate questions over stored history. It never
// writes. Every query tolerates an empty store.
type StatsService struct {
	DB     *gorm.DB
	Logger *slog.Logger
}

func NewStatsService(db *gorm.DB, logger *slog.Logger) *StatsService {
	return &StatsService{DB: db, Logger: logger}
}

type GlobalInfo struct {
	TotalWins    int64   `json:"total_victorias"`
	TotalLosses  int64   `json:"total_derrotas"`
	TotalMatches int64   `json:"total_partidas"`
	WinRate      float64 `json:"winrate"`
}

type MatchStats struct {
	TotalMatches     int64 `json:"total_partidas"`
	MatchesWon       int64 `json:"partidas_ganadas"`
	MatchesAbandoned int64 `json:"partidas_abandonadas"`
}

// HandStat is a move and its share (0-100) of the rounds with a given
// outcome. Move is empty when there are no such rounds.
type HandStat struct {
	Move       models.Move `json:"mano,omitempty"`
	Percentage float64     `json:"porcentaje"`
}

type MatchDetail struct {
	Match  models.Match   `json:"partida"`
	Rounds []models.Round `json:"jugadas"`
}

// Snapshot bundles every aggregate at one point in time.
type Snapshot struct {
	GeneratedAt   time.Time       `json:"generated_at"`
	GlobalInfo    GlobalInfo      `json:"global_info"`
	MatchStats    MatchStats      `json:"estadisticas"`
	StrongestHand HandStat        `json:"mano_fuerte"`
	WeakestHand   HandStat        `json:"mano_debil"`
	Ranking       []models.Player `json:"ranking"`
}

// GlobalInfo counts matches with a winner as wins and abandoned matches as
// losses. WinRate is wins over all matches, as a percentage.
func (s *StatsService) GlobalInfo(ctx context.Context) (GlobalInfo, error) {
	counts, err := s.countMatches(ctx)
	if err != nil {
		s.Logger.Error("global info failed", "error", err)
		return GlobalInfo{}, err
	}

	info := GlobalInfo{
		TotalWins:    counts.won,
		TotalLosses:  counts.abandoned,
		TotalMatches: counts.total,
	}
	if counts.total > 0 {
		info.WinRate = float64(counts.won) / float64(counts.total) * 100
	}
	return info, nil
}

func (s *StatsService) MatchStats(ctx context.Context) (MatchStats, error) {
	counts, err := s.countMatches(ctx)
	if err != nil {
		s.Logger.Error("match stats failed", "error", err)
		return MatchStats{}, err
	}
	return MatchStats{
		TotalMatches:     counts.total,
		MatchesWon:       counts.won,
		MatchesAbandoned: counts.abandoned,
	}, nil
}

// StrongestHand is the move that appears most among won rounds.
func (s *StatsService) StrongestHand(ctx context.Context) (HandStat, error) {
	return s.dominantHand(ctx, models.OutcomeWon)
}

// WeakestHand is the move that appears most among lost rounds.
func (s *StatsService) WeakestHand(ctx context.Context) (HandStat, error) {
	return s.dominantHand(ctx, models.OutcomeLost)
}

// Ranking returns the top limit players by score. Equal scores keep creation
// order. limit <= 0 means DefaultRankingSize.
func (s *StatsService) Ranking(ctx context.Context, limit int) ([]models.Player, error) {
	if limit <= 0 {
		limit = DefaultRankingSize
	}

	players := make([]models.Player, 0, limit)
	err := s.DB.WithContext(ctx).
		Order("score DESC").
		Order("id ASC").
		Limit(limit).
		Find(&players).Error
	if err != nil {
		s.Logger.Error("ranking failed", "error", err)
		return nil, persistErr("ranking", err)
	}
	return players, nil
}

// MatchDetail loads a match with its winner and rounds in play order.
func (s *StatsService) MatchDetail(ctx context.Context, matchID uint) (*MatchDetail, error) {
	var match models.Match
	err := s.DB.WithContext(ctx).Preload("Winner").First(&match, matchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, persistErr("get match", err)
	}

	rounds := []models.Round{}
	if err := s.DB.WithContext(ctx).Where("match_id = ?", matchID).Order("id ASC").Find(&rounds).Error; err != nil {
		return nil, persistErr("get rounds", err)
	}
	return &MatchDetail{Match: match, Rounds: rounds}, nil
}

// Snapshot gathers every aggregate for export.
func (s *StatsService) Snapshot(ctx context.Context) (*Snapshot, error) {
	global, err := s.GlobalInfo(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.MatchStats(ctx)
	if err != nil {
		return nil, err
	}
	strongest, err := s.StrongestHand(ctx)
	if err != nil {
		return nil, err
	}
	weakest, err := s.WeakestHand(ctx)
	if err != nil {
		return nil, err
	}
	ranking, err := s.Ranking(ctx, DefaultRankingSize)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		GeneratedAt:   time.Now().UTC(),
		GlobalInfo:    global,
		MatchStats:    stats,
		StrongestHand: strongest,
		WeakestHand:   weakest,
		Ranking:       ranking,
	}, nil
}

type matchCounts struct {
	total, won, abandoned int64
}

func (s *StatsService) countMatches(ctx context.Context) (matchCounts, error) {
	var c matchCounts
	db := s.DB.WithContext(ctx)

	if err := db.Model(&models.Match{}).Count(&c.total).Error; err != nil {
		return c, persistErr("count matches", err)
	}
	if err := db.Model(&models.Match{}).Where("winner_id IS NOT NULL").Count(&c.won).Error; err != nil {
		return c, persistErr("count won matches", err)
	}
	if err := db.Model(&models.Match{}).Where("status = ?", models.MatchStatusAbandoned).Count(&c.abandoned).Error; err != nil {
		return c, persistErr("count abandoned matches", err)
	}
	return c, nil
}

// dominantHand finds the most frequent move among rounds with outcome. Ties
// go to the lowest move token so results are reproducible.
func (s *StatsService) dominantHand(ctx context.Context, outcome models.Outcome) (HandStat, error) {
	type moveCount struct {
		Move  models.Move
		Total int64
	}

	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Model(&models.Round{}).Where("outcome = ?", outcome).Count(&total).Error; err != nil {
		s.Logger.Error("count rounds failed", "outcome", outcome, "error", err)
		return HandStat{}, persistErr("count rounds", err)
	}
	if total == 0 {
		return HandStat{}, nil
	}

	var top []moveCount
	err := db.Model(&models.Round{}).
		Select("move, COUNT(*) AS total").
		Where("outcome = ?", outcome).
		Group("move").
		Order("total DESC").
		Order("move ASC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		s.Logger.Error("hand query failed", "outcome", outcome, "error", err)
		return HandStat{}, persistErr("hand stats", err)
	}
	if len(top) == 0 {
		return HandStat{}, nil
	}

	return HandStat{
		Move:       top[0].Move,
		Percentage: float64(top[0].Total) / float64(total) * 100,
	}, nil
}
