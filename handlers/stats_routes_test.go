package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"rps-game-system/database/dbtest"
	"rps-game-system/models"
	"rps-game-system/services"
	"rps-game-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type StatsRoutesTestSuite struct {
	suite.Suite
	db      *gorm.DB
	ctx     context.Context
	app     *fiber.App
	players *services.PlayerService
	matches *services.MatchService
}

func (s *StatsRoutesTestSuite) SetupTest() {
	s.db = dbtest.Open(s.T())
	s.ctx = context.Background()
	logger := utils.DiscardLogger()

	s.players = services.NewPlayerService(s.db, logger)
	s.matches = services.NewMatchService(s.db, logger)
	stats := services.NewStatsService(s.db, logger)

	s.app = NewApp(logger, []string{"*"})
	SetupStatsRoutes(s.app, stats, s.players, logger)
	SetupHealthRoutes(s.app, s.db)
}

func TestStatsRoutesTestSuite(t *testing.T) {
	suite.Run(t, new(StatsRoutesTestSuite))
}

func (s *StatsRoutesTestSuite) get(path string, out any) int {
	resp, err := s.app.Test(httptest.NewRequest("GET", path, nil))
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if out != nil {
		s.Require().NoError(json.Unmarshal(body, out), string(body))
	}
	return resp.StatusCode
}

// seed plays one won match (rock, rock, paper wins), one abandoned match and
// leaves one in progress.
func (s *StatsRoutesTestSuite) seed() (*models.Player, *models.Match) {
	ana, err := s.players.GetOrCreate(s.ctx, "Ana", models.PlayerKindHuman)
	s.Require().NoError(err)
	cpu, err := s.players.GetOrCreate(s.ctx, "Máquina", models.PlayerKindMachine)
	s.Require().NoError(err)

	won, err := s.matches.StartMatch(s.ctx, ana, cpu)
	s.Require().NoError(err)
	for _, mv := range [][2]models.Move{
		{models.MoveRock, models.MoveScissors},
		{models.MoveRock, models.MoveScissors},
		{models.MovePaper, models.MoveRock},
	} {
		_, err := s.matches.RecordRound(s.ctx, won, ana, mv[0], mv[1])
		s.Require().NoError(err)
	}
	s.Require().NoError(s.matches.FinishMatch(s.ctx, won, ana))

	abandoned, err := s.matches.StartMatch(s.ctx, ana, cpu)
	s.Require().NoError(err)
	_, err = s.matches.RecordRound(s.ctx, abandoned, ana, models.MoveScissors, models.MoveRock)
	s.Require().NoError(err)
	s.Require().NoError(s.matches.AbandonMatch(s.ctx, abandoned))

	_, err = s.matches.StartMatch(s.ctx, ana, cpu)
	s.Require().NoError(err)
	return ana, won
}

func (s *StatsRoutesTestSuite) TestEmptyStore() {
	var info map[string]float64
	s.Equal(fiber.StatusOK, s.get("/get_global_info", &info))
	s.Equal(map[string]float64{
		"total_victorias": 0, "total_derrotas": 0, "total_partidas": 0, "winrate": 0,
	}, info)

	var strong map[string]any
	s.Equal(fiber.StatusOK, s.get("/mano_fuerte", &strong))
	s.Nil(strong["mano_fuerte"])
	s.Equal(float64(0), strong["porcentaje_victorias"])

	var ranking []map[string]any
	s.Equal(fiber.StatusOK, s.get("/ranking", &ranking))
	s.NotNil(ranking)
	s.Empty(ranking)

	var stats map[string]int
	s.Equal(fiber.StatusOK, s.get("/estadisticas", &stats))
	s.Equal(map[string]int{"total_partidas": 0, "partidas_ganadas": 0, "partidas_abandonadas": 0}, stats)
}

func (s *StatsRoutesTestSuite) TestGlobalInfo() {
	s.seed()

	var info map[string]float64
	s.Equal(fiber.StatusOK, s.get("/get_global_info", &info))
	s.Equal(float64(3), info["total_partidas"])
	s.Equal(float64(1), info["total_victorias"])
	s.Equal(float64(1), info["total_derrotas"])
	s.InDelta(33.33, info["winrate"], 0.01)
}

func (s *StatsRoutesTestSuite) TestHands() {
	s.seed()

	var strong map[string]any
	s.Equal(fiber.StatusOK, s.get("/mano_fuerte", &strong))
	s.Equal("piedra", strong["mano_fuerte"])
	s.InDelta(66.67, strong["porcentaje_victorias"], 0.01)

	var weak map[string]any
	s.Equal(fiber.StatusOK, s.get("/mano_debil", &weak))
	s.Equal("tijera", weak["mano_debil"])
	s.InDelta(100.0, weak["porcentaje_derrotas"], 0.01)
}

func (s *StatsRoutesTestSuite) TestRankingAndStats() {
	ana, _ := s.seed()

	var ranking []map[string]any
	s.Equal(fiber.StatusOK, s.get("/ranking", &ranking))
	s.Require().Len(ranking, 2)
	s.Equal(float64(ana.ID), ranking[0]["id"])
	s.Equal("Ana", ranking[0]["nombre"])
	s.Equal(float64(1), ranking[0]["puntos"])
	s.Equal("humano", ranking[0]["tipo"])

	var stats map[string]int
	s.Equal(fiber.StatusOK, s.get("/estadisticas", &stats))
	s.Equal(map[string]int{"total_partidas": 3, "partidas_ganadas": 1, "partidas_abandonadas": 1}, stats)
}

func (s *StatsRoutesTestSuite) TestMatchDetail() {
	_, won := s.seed()

	var detail struct {
		Partida models.Match   `json:"partida"`
		Jugadas []models.Round `json:"jugadas"`
	}
	s.Equal(fiber.StatusOK, s.get("/partidas/"+itoa(won.ID), &detail))
	s.Equal(models.MatchStatusFinished, detail.Partida.Status)
	s.Len(detail.Jugadas, 3)

	s.Equal(fiber.StatusNotFound, s.get("/partidas/999", nil))
	s.Equal(fiber.StatusBadRequest, s.get("/partidas/abc", nil))
}

func (s *StatsRoutesTestSuite) TestPlayerByHandle() {
	s.seed()

	var player map[string]any
	s.Equal(fiber.StatusOK, s.get("/jugadores/maquina", &player))
	s.Equal("Máquina", player["nombre"])
	s.Equal("maquina", player["tipo"])

	s.Equal(fiber.StatusNotFound, s.get("/jugadores/nadie", nil))
}

func (s *StatsRoutesTestSuite) TestStoreFailureIs500() {
	sqlDB, err := s.db.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	var body map[string]string
	s.Equal(fiber.StatusInternalServerError, s.get("/estadisticas", &body))
	s.Equal("failed to get match stats", body["error"])
	s.NotEmpty(body["cause"])

	s.Equal(fiber.StatusServiceUnavailable, s.get("/health", nil))
}

func (s *StatsRoutesTestSuite) TestHealth() {
	var body map[string]string
	s.Equal(fiber.StatusOK, s.get("/health", &body))
	s.Equal("ok", body["status"])
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
