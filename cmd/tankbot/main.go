package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"tankbot/internal/game"
	"tankbot/internal/log"
	tanknet "tankbot/internal/net"
)

// randomBot is the example handler: it drives around at random, in the
// manner of a starter bot. Replace NextMove with real strategy.
type randomBot struct {
	rng *rand.Rand
}

func (b *randomBot) OnLobbyData(lobby *game.LobbyData) {
	fmt.Printf("Joined lobby as %s (%d/%d players, %dx%d grid)\n",
		lobby.PlayerID, len(lobby.Players), lobby.Settings.NumberOfPlayers,
		lobby.Settings.GridDimension, lobby.Settings.GridDimension)
}

func (b *randomBot) NextMove(state *game.GameState) game.ResponseAction {
	if state.MyAgent.IsDead() {
		return game.Pass{}
	}
	switch b.rng.Intn(4) {
	case 0:
		return game.Movement{Direction: game.MovementDirection(b.rng.Intn(2))}
	case 1:
		return game.Rotation{
			Tank:   game.RotationPtr(game.RotationDirection(b.rng.Intn(2))),
			Turret: game.RotationPtr(game.RotationDirection(b.rng.Intn(2))),
		}
	case 2:
		return game.Shoot{}
	default:
		return game.Pass{}
	}
}

func (b *randomBot) OnGameEnded(result *game.GameResult) {
	fmt.Println("Game over. Final standings:")
	for _, p := range result.Players {
		score, _ := p.Score()
		fmt.Printf("  %s: %d\n", p.Nickname(), score)
	}
	if w, ok := result.Winner(); ok {
		fmt.Printf("Winner: %s\n", w.Nickname())
	}
}

func main() {
	cfgFile := flag.String("config", "", "path to yaml config file")
	host := flag.String("host", "", "server host")
	port := flag.Int("port", 0, "server port")
	code := flag.String("code", "", "join code")
	nickname := flag.String("nickname", "", "bot nickname")
	seed := flag.Int64("seed", 0, "rng seed for the example bot (0 = random)")
	flag.Parse()

	cfg := tanknet.DefaultConfig()
	if *cfgFile != "" {
		var err error
		if cfg, err = tanknet.LoadConfig(*cfgFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	// Flags win over the config file.
	if *host != "" {
		cfg.Host = *host
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *code != "" {
		cfg.Code = *code
	}
	if *nickname != "" {
		cfg.Nickname = *nickname
	}

	rng := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	ctx := context.Background()
	client, err := tanknet.Dial(ctx, cfg, &randomBot{rng: rng}, log.NewTextLogger(os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := client.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
