package workers

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"rps-game-system/database/dbtest"
	"rps-game-system/models"
	"rps-game-system/services"
	"rps-game-system/utils"
	"rps-game-system/workers/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type failingSource struct{ err error }

func (f failingSource) Snapshot(context.Context) (*services.Snapshot, error) {
	return nil, f.err
}

func newStatsService(t *testing.T) *services.StatsService {
	t.Helper()
	db := dbtest.Open(t)
	logger := utils.DiscardLogger()

	players := services.NewPlayerService(db, logger)
	matches := services.NewMatchService(db, logger)
	ctx := context.Background()

	ana, err := players.GetOrCreate(ctx, "Ana", models.PlayerKindHuman)
	require.NoError(t, err)
	bot, err := players.GetOrCreate(ctx, "Máquina", models.PlayerKindMachine)
	require.NoError(t, err)

	match, err := matches.StartMatch(ctx, ana, bot)
	require.NoError(t, err)
	for _, mv := range [][2]models.Move{
		{models.MoveRock, models.MoveScissors},
		{models.MovePaper, models.MovePaper},
		{models.MoveScissors, models.MoveScissors},
	} {
		_, err = matches.RecordRound(ctx, match, ana, mv[0], mv[1])
		require.NoError(t, err)
	}
	require.NoError(t, matches.FinishMatch(ctx, match, ana))

	return services.NewStatsService(db, logger)
}

func TestExportOnceUploadsTimestampedAndLatest(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploader := mocks.NewMockUploader(ctrl)

	var stamped []byte
	gomock.InOrder(
		uploader.EXPECT().
			PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, key string, body []byte) error {
				assert.True(t, strings.HasPrefix(key, "stats/"))
				assert.True(t, strings.HasSuffix(key, "Z.json"))
				stamped = body
				return nil
			}),
		uploader.EXPECT().
			PutJSON(gomock.Any(), LatestSnapshotKey, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, body []byte) error {
				assert.Equal(t, stamped, body)
				return nil
			}),
	)

	exporter := NewStatsExporter(newStatsService(t), uploader, time.Minute, utils.DiscardLogger())
	key, err := exporter.ExportOnce(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, LatestSnapshotKey, key)

	var snap services.Snapshot
	require.NoError(t, json.Unmarshal(stamped, &snap))
	assert.EqualValues(t, 1, snap.GlobalInfo.TotalWins)
	assert.Equal(t, models.MoveRock, snap.StrongestHand.Move)
	require.Len(t, snap.Ranking, 2)
	assert.Equal(t, "Ana", snap.Ranking[0].Name)
}

func TestExportOnceStopsOnUploadError(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploader := mocks.NewMockUploader(ctrl)

	boom := errors.New("bucket unavailable")
	uploader.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(boom).Times(1)

	exporter := NewStatsExporter(newStatsService(t), uploader, time.Minute, utils.DiscardLogger())
	_, err := exporter.ExportOnce(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestExportOnceSkipsUploadWhenSnapshotFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploader := mocks.NewMockUploader(ctrl)

	boom := errors.New("db gone")
	exporter := NewStatsExporter(failingSource{err: boom}, uploader, time.Minute, utils.DiscardLogger())
	_, err := exporter.ExportOnce(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestRunExportsUntilCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	uploader := mocks.NewMockUploader(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	uploaded := make(chan struct{}, 1)
	uploader.EXPECT().PutJSON(gomock.Any(), LatestSnapshotKey, gomock.Any()).
		DoAndReturn(func(context.Context, string, []byte) error {
			select {
			case uploaded <- struct{}{}:
			default:
			}
			return nil
		}).AnyTimes()
	uploader.EXPECT().PutJSON(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	exporter := NewStatsExporter(newStatsService(t), uploader, 10*time.Millisecond, utils.DiscardLogger())

	done := make(chan struct{})
	go func() {
		exporter.Run(ctx)
		close(done)
	}()

	select {
	case <-uploaded:
	case <-time.After(2 * time.Second):
		t.Fatal("exporter never uploaded")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("exporter did not stop")
	}
}
