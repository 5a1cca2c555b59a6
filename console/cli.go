package console

import (
	"context"
	"flag"
	"fmt"
	"io"

	"rps-game-system/config"
	"rps-game-system/database"
	"rps-game-system/services"
	"rps-game-system/utils"

	"github.com/caarlos0/env/v11"
)

const (
	ModeHuman   = "humano"
	ModeMachine = "maquina"
)

// Options selects what a console session plays.
type Options struct {
	Mode    string `env:"CONSOLE_MODE"    envDefault:"humano"`
	Matches int    `env:"CONSOLE_MATCHES" envDefault:"1"`
	Name    string `env:"PLAYER_NAME"`
	Seed    int64  `env:"CONSOLE_SEED"`
}

// ParseOptions reads environment defaults, then lets flags override them.
func ParseOptions(fs *flag.FlagSet, args []string) (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}

	fs.StringVar(&opts.Mode, "mode", opts.Mode, "game mode: humano (you against the machine) or maquina (machine against machine)")
	fs.IntVar(&opts.Matches, "matches", opts.Matches, "number of matches to simulate in maquina mode")
	fs.StringVar(&opts.Name, "name", opts.Name, "player name in humano mode (asked for when empty)")
	fs.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed for the machine (0 = random)")
	fs.StringVar(&opts.Mode, "modo", opts.Mode, "alias for -mode")
	fs.IntVar(&opts.Matches, "n_partidas", opts.Matches, "alias for -matches")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	switch opts.Mode {
	case ModeHuman:
	case ModeMachine:
		if opts.Matches < 1 {
			return Options{}, fmt.Errorf("-matches must be positive, got %d", opts.Matches)
		}
	default:
		return Options{}, fmt.Errorf("unknown mode %q (want %s or %s)", opts.Mode, ModeHuman, ModeMachine)
	}
	return opts, nil
}

// Run opens the store named by cfg and plays one session. Logs go to the
// configured file only so they don't interleave with the prompts on out.
func Run(ctx context.Context, cfg config.Config, opts Options, in io.Reader, out io.Writer) error {
	logger, closeLog, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile, false)
	if err != nil {
		return err
	}
	defer closeLog()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	game := NewGame(
		services.NewPlayerService(db, logger),
		services.NewMatchService(db, logger),
		NewRandomChooser(&ChooserConfig{Seed: opts.Seed}),
		in, out, logger,
	)

	logger.Info("console session started", "mode", opts.Mode)
	switch opts.Mode {
	case ModeMachine:
		_, err = game.PlayMachineVsMachine(ctx, opts.Matches)
	default:
		_, err = game.PlayHumanVsMachine(ctx, opts.Name)
	}
	if err != nil {
		logger.Error("console session failed", "mode", opts.Mode, "error", err)
	}
	return err
}
