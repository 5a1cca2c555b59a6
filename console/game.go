package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"rps-game-system/models"
	"rps-game-system/services"
)

const (
	MachineName    = "Máquina"
	MachineOneName = "Máquina 1"
	MachineTwoName = "Máquina 2"
)

// MatchResult is what a played match ended as. Winner is nil for abandoned
// and tied matches.
type MatchResult struct {
	Match    *models.Match
	Outcomes []models.Outcome
	Winner   *models.Player
}

// Game runs console matches on top of the match and player services.
type Game struct {
	Players *services.PlayerService
	Matches *services.MatchService
	Machine MoveChooser
	Logger  *slog.Logger

	in  io.Reader
	out io.Writer
}

func NewGame(players *services.PlayerService, matches *services.MatchService, machine MoveChooser, in io.Reader, out io.Writer, logger *slog.Logger) *Game {
	return &Game{
		Players: players,
		Matches: matches,
		Machine: machine,
		Logger:  logger,
		in:      in,
		out:     out,
	}
}

// PlayHumanVsMachine plays one interactive match for the named player, asking
// for the name first when it is blank. If ctx is cancelled or input ends
// before the last round, the match is abandoned and returned without error.
// Stopping before the match starts returns a nil result and no error.
func (g *Game) PlayHumanVsMachine(ctx context.Context, name string) (*MatchResult, error) {
	lines, stop := readLines(g.in)
	defer stop()

	if strings.TrimSpace(name) == "" {
		var ok bool
		if name, ok = g.promptName(ctx, lines); !ok {
			return nil, nil
		}
	}

	human, err := g.Players.GetOrCreate(ctx, name, models.PlayerKindHuman)
	if err != nil {
		return nil, interrupted(ctx, err)
	}
	machine, err := g.Players.GetOrCreate(ctx, MachineName, models.PlayerKindMachine)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	match, err := g.Matches.StartMatch(ctx, human, machine)
	if err != nil {
		return nil, interrupted(ctx, err)
	}
	result := &MatchResult{Match: match}

	fmt.Fprintf(g.out, "%s contra %s, al mejor de %d rondas.\n", human.Name, machine.Name, models.RoundsPerMatch)

	for round := 1; round <= models.RoundsPerMatch; round++ {
		move, ok := g.promptMove(ctx, lines, round)
		if !ok {
			return result, g.abandon(match)
		}

		machineMove := g.Machine.Choose()
		outcome, err := g.Matches.RecordRound(ctx, match, human, move, machineMove)
		if err != nil {
			return result, g.stop(ctx, match, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
		fmt.Fprintf(g.out, "Tú: %s, %s: %s. %s\n", move, machine.Name, machineMove, describe(outcome))
	}

	winner, err := g.Matches.ConcludeMatch(ctx, match, human, machine)
	if err != nil {
		return result, g.stop(ctx, match, err)
	}
	result.Winner = winner
	g.announce(result)
	return result, nil
}

// PlayMachineVsMachine plays n unattended matches between two machine
// players. Cancelling ctx abandons the match in play and stops the batch.
func (g *Game) PlayMachineVsMachine(ctx context.Context, n int) ([]MatchResult, error) {
	if n < 1 {
		return nil, fmt.Errorf("match count must be positive, got %d", n)
	}

	one, err := g.Players.GetOrCreate(ctx, MachineOneName, models.PlayerKindMachine)
	if err != nil {
		return nil, interrupted(ctx, err)
	}
	two, err := g.Players.GetOrCreate(ctx, MachineTwoName, models.PlayerKindMachine)
	if err != nil {
		return nil, interrupted(ctx, err)
	}

	results := make([]MatchResult, 0, n)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		result, err := g.playMachineMatch(ctx, one, two)
		if result != nil {
			results = append(results, *result)
		}
		if err != nil {
			return results, err
		}
		if result == nil || result.Match.Status == models.MatchStatusAbandoned {
			break
		}
		fmt.Fprintf(g.out, "Partida %d/%d: ", i+1, n)
		g.announce(result)
	}

	g.summarize(results, one, two)
	return results, nil
}

// playMachineMatch returns a nil result and no error when ctx ends before
// the match could start.
func (g *Game) playMachineMatch(ctx context.Context, one, two *models.Player) (*MatchResult, error) {
	match, err := g.Matches.StartMatch(ctx, one, two)
	if err != nil {
		return nil, interrupted(ctx, err)
	}
	result := &MatchResult{Match: match}

	for round := 0; round < models.RoundsPerMatch; round++ {
		if ctx.Err() != nil {
			return result, g.abandon(match)
		}
		outcome, err := g.Matches.RecordRound(ctx, match, one, g.Machine.Choose(), g.Machine.Choose())
		if err != nil {
			return result, g.stop(ctx, match, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	winner, err := g.Matches.ConcludeMatch(ctx, match, one, two)
	if err != nil {
		return result, g.stop(ctx, match, err)
	}
	result.Winner = winner
	return result, nil
}

func (g *Game) promptName(ctx context.Context, lines <-chan string) (string, bool) {
	for {
		fmt.Fprint(g.out, "Introduce el nombre del jugador: ")

		select {
		case <-ctx.Done():
			fmt.Fprintln(g.out)
			return "", false
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(g.out)
				return "", false
			}
			if name := strings.TrimSpace(line); name != "" {
				return name, true
			}
		}
	}
}

// promptMove asks until a valid move is typed. It reports false when ctx is
// done or input ends.
func (g *Game) promptMove(ctx context.Context, lines <-chan string, round int) (models.Move, bool) {
	for {
		fmt.Fprintf(g.out, "Ronda %d/%d. Elige piedra, papel o tijera: ", round, models.RoundsPerMatch)

		select {
		case <-ctx.Done():
			fmt.Fprintln(g.out)
			return "", false
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(g.out)
				return "", false
			}
			move, err := ParseMove(line)
			if err != nil {
				fmt.Fprintf(g.out, "Jugada no válida: %q.\n", line)
				continue
			}
			return move, true
		}
	}
}

// abandon closes match on a fresh context so an interrupted session still
// leaves no match in progress.
func (g *Game) abandon(match *models.Match) error {
	if err := g.Matches.AbandonMatch(context.Background(), match); err != nil {
		if errors.Is(err, services.ErrMatchNotInProgress) {
			return nil
		}
		return err
	}
	fmt.Fprintln(g.out, "Partida abandonada.")
	return nil
}

// stop abandons match after a failed call. When ctx was cancelled the failure
// is the interruption itself and is not reported.
func (g *Game) stop(ctx context.Context, match *models.Match, err error) error {
	if ctx.Err() != nil {
		return g.abandon(match)
	}
	if abandonErr := g.abandon(match); abandonErr != nil {
		g.Logger.Error("could not abandon match after failure", "match_id", match.ID, "error", abandonErr)
	}
	return err
}

// interrupted drops err once ctx is done.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (g *Game) announce(r *MatchResult) {
	switch {
	case r.Winner != nil:
		fmt.Fprintf(g.out, "Gana %s.\n", r.Winner.Name)
	case r.Match.Status == models.MatchStatusTied:
		fmt.Fprintln(g.out, "Empate.")
	}
}

func (g *Game) summarize(results []MatchResult, one, two *models.Player) {
	var winsOne, winsTwo, ties int
	for _, r := range results {
		switch {
		case r.Winner == nil:
			if r.Match.Status == models.MatchStatusTied {
				ties++
			}
		case r.Winner.ID == one.ID:
			winsOne++
		case r.Winner.ID == two.ID:
			winsTwo++
		}
	}
	fmt.Fprintf(g.out, "%s: %d, %s: %d, empates: %d\n", one.Name, winsOne, two.Name, winsTwo, ties)
}

func describe(o models.Outcome) string {
	switch o {
	case models.OutcomeWon:
		return "Ganas la ronda."
	case models.OutcomeLost:
		return "Pierdes la ronda."
	default:
		return "Ronda empatada."
	}
}

// readLines feeds lines from r until it ends or stop is called.
func readLines(r io.Reader) (<-chan string, func()) {
	lines := make(chan string)
	done := make(chan struct{})

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	return lines, func() { close(done) }
}
