// handlers/stats_routes.go
package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"rps-game-system/services"

	"github.com/gofiber/fiber/v2"
)

// SetupStatsRoutes mounts the read-only statistics API. Paths and field names
// are the ones existing clients already call.
func SetupStatsRoutes(app fiber.Router, stats *services.StatsService, players *services.PlayerService, logger *slog.Logger) {
	app.Get("/get_global_info", func(c *fiber.Ctx) error {
		info, err := stats.GlobalInfo(c.UserContext())
		if err != nil {
			return internalError(c, logger, "failed to get global info", err)
		}
		return c.JSON(info)
	})

	app.Get("/mano_fuerte", func(c *fiber.Ctx) error {
		hand, err := stats.StrongestHand(c.UserContext())
		if err != nil {
			return internalError(c, logger, "failed to get strongest hand", err)
		}
		return c.JSON(fiber.Map{
			"mano_fuerte":          moveOrNil(hand),
			"porcentaje_victorias": hand.Percentage,
		})
	})

	app.Get("/mano_debil", func(c *fiber.Ctx) error {
		hand, err := stats.WeakestHand(c.UserContext())
		if err != nil {
			return internalError(c, logger, "failed to get weakest hand", err)
		}
		return c.JSON(fiber.Map{
			"mano_debil":          moveOrNil(hand),
			"porcentaje_derrotas": hand.Percentage,
		})
	})

	app.Get("/ranking", func(c *fiber.Ctx) error {
		ranking, err := stats.Ranking(c.UserContext(), services.DefaultRankingSize)
		if err != nil {
			return internalError(c, logger, "failed to get ranking", err)
		}
		return c.JSON(ranking)
	})

	app.Get("/estadisticas", func(c *fiber.Ctx) error {
		s, err := stats.MatchStats(c.UserContext())
		if err != nil {
			return internalError(c, logger, "failed to get match stats", err)
		}
		return c.JSON(s)
	})

	app.Get("/partidas/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 0)
		if err != nil || id == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match id"})
		}

		detail, err := stats.MatchDetail(c.UserContext(), uint(id))
		if errors.Is(err, services.ErrMatchNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return internalError(c, logger, "failed to get match", err)
		}
		return c.JSON(detail)
	})

	app.Get("/jugadores/:handle", func(c *fiber.Ctx) error {
		player, err := players.GetByHandle(c.UserContext(), c.Params("handle"))
		if errors.Is(err, services.ErrPlayerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return internalError(c, logger, "failed to get player", err)
		}
		return c.JSON(player)
	})
}

func moveOrNil(h services.HandStat) any {
	if h.Move == "" {
		return nil
	}
	return h.Move
}

func internalError(c *fiber.Ctx, logger *slog.Logger, msg string, err error) error {
	logger.Error(msg, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
