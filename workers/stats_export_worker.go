package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"rps-game-system/services"
)

// LatestSnapshotKey always holds the most recent export.
const LatestSnapshotKey = "stats/latest.json"

//go:generate mockgen -package=mocks -destination=mocks/mock_uploader.go rps-game-system/workers Uploader

// Uploader stores an object. utils.R2Client is the production implementation.
type Uploader interface {
	PutJSON(ctx context.Context, key string, body []byte) error
}

// SnapshotSource produces the statistics to export.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*services.Snapshot, error)
}

// StatsExporter periodically uploads a JSON statistics snapshot, keeping a
// timestamped copy plus LatestSnapshotKey.
type StatsExporter struct {
	Stats    SnapshotSource
	Uploader Uploader
	Interval time.Duration
	Logger   *slog.Logger
}

func NewStatsExporter(stats SnapshotSource, uploader Uploader, interval time.Duration, logger *slog.Logger) *StatsExporter {
	return &StatsExporter{
		Stats:    stats,
		Uploader: uploader,
		Interval: interval,
		Logger:   logger,
	}
}

// ExportOnce uploads one snapshot and returns the timestamped key it used.
func (e *StatsExporter) ExportOnce(ctx context.Context) (string, error) {
	snap, err := e.Stats.Snapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("build snapshot: %w", err)
	}

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("stats/%s.json", snap.GeneratedAt.UTC().Format(time.RFC3339))
	if err := e.Uploader.PutJSON(ctx, key, body); err != nil {
		return "", err
	}
	if err := e.Uploader.PutJSON(ctx, LatestSnapshotKey, body); err != nil {
		return "", err
	}
	return key, nil
}

// Run exports every Interval until ctx is done. Failed exports are logged and
// retried on the next tick.
func (e *StatsExporter) Run(ctx context.Context) {
	e.Logger.Info("stats exporter started", "interval", e.Interval.String())

	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.Logger.Info("stats exporter stopped")
			return
		case <-ticker.C:
			key, err := e.ExportOnce(ctx)
			if err != nil {
				e.Logger.Error("stats export failed", "error", err)
				continue
			}
			e.Logger.Info("stats exported", "key", key)
		}
	}
}
