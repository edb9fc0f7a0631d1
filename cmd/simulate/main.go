package main

import (
	"context"
	"flag"
	"math/rand"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Retopia/Big-2-Backend/internal/app"
	"github.com/Retopia/Big-2-Backend/internal/bot"
	"github.com/Retopia/Big-2-Backend/internal/domain"
)

var (
	cmdArgs    arg
	mainLogger = log.With().Str("logger_name", "main::simulate").Logger()
)

type arg struct {
	matches      int
	seatCount    int
	seed         int64
	difficulties string
	verbose      bool
}

func init() {
	flag.IntVar(&cmdArgs.matches, "matches", 100, "Number of matches to simulate")
	flag.IntVar(&cmdArgs.seatCount, "seats", 4, "Seats per match (2-4)")
	flag.Int64Var(&cmdArgs.seed, "seed", 0, "Rng seed. 0 picks a random seed per run.")
	flag.StringVar(&cmdArgs.difficulties, "difficulties", "", "Difficulty tag applied to every seat (easy, normal, hard). Empty alternates normal and hard.")
	flag.BoolVar(&cmdArgs.verbose, "v", false, "Log every move")
	flag.Parse()
}

func main() {
	os.Exit(simulate())
}

func simulate() int {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if !cmdArgs.verbose {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if cmdArgs.seatCount < 2 || cmdArgs.seatCount > 4 {
		mainLogger.Error().Int("seats", cmdArgs.seatCount).Msg("Seat count must be between 2 and 4.")
		return 1
	}

	seed := cmdArgs.seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))
	mainLogger.Info().Int64("seed", seed).Int("matches", cmdArgs.matches).Int("seats", cmdArgs.seatCount).Msg("Starting simulation.")

	seats := make([]app.SeatConfig, cmdArgs.seatCount)
	for i := range seats {
		difficulty := cmdArgs.difficulties
		if difficulty == "" {
			difficulty = bot.DifficultyNormal
			if i%2 == 1 {
				difficulty = bot.DifficultyHard
			}
		}
		seats[i] = app.SeatConfig{
			ID:          string(rune('a' + i)),
			DisplayName: difficulty + " " + string(rune('A'+i)),
			IsBot:       true,
			Difficulty:  difficulty,
		}
	}

	svc := app.NewService(rng)
	ctx := context.Background()
	wins := make(map[string]int, cmdArgs.seatCount)
	totalRounds := 0

	for i := 0; i < cmdArgs.matches; i++ {
		session, _, err := svc.CreateSession(seats, nil)
		if err != nil {
			mainLogger.Error().Err(err).Msg("Failed to create session.")
			return 1
		}

		for steps := 0; steps < 2000 && !session.Finished(); steps++ {
			events, err := session.RunBotTurn(ctx)
			if err != nil {
				mainLogger.Error().Err(err).Int("match", i).Msg("Bot turn failed.")
				return 1
			}
			if cmdArgs.verbose {
				for _, ev := range events {
					if p, ok := ev.Payload.(app.CardPlayedPayload); ok {
						mainLogger.Debug().Str("seat", p.SeatID).Str("cards", cardString(p.Cards)).Int("remaining", p.HandSize).Msg("Play")
					}
				}
			}
		}

		winner, ok := session.Winner()
		if !ok {
			mainLogger.Error().Int("match", i).Msg("Match did not finish.")
			return 1
		}
		wins[winner.DisplayName]++

		if snap, err := session.SnapshotFor(seats[0].ID); err == nil {
			totalRounds += snap.RoundNumber
		}
	}

	for name, count := range wins {
		mainLogger.Info().Str("seat", name).Int("wins", count).Msg("Result")
	}
	if cmdArgs.matches > 0 {
		mainLogger.Info().Int("avg_rounds", totalRounds/cmdArgs.matches).Msg("Done.")
	}
	return 0
}

func cardString(cards []domain.Card) string {
	out := ""
	for i, c := range cards {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}
