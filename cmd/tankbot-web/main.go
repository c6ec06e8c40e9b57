package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"

	"tankbot/internal/game"
	"tankbot/internal/log"
	tanknet "tankbot/internal/net"
	"tankbot/internal/web"
)

// spectator joins the game, passes every tick and pushes each snapshot to
// the browser.
type spectator struct {
	srv *web.Server
}

func (s *spectator) OnLobbyData(lobby *game.LobbyData) {}

func (s *spectator) NextMove(state *game.GameState) game.ResponseAction {
	s.srv.Publish(state)
	return game.Pass{}
}

func (s *spectator) OnGameEnded(result *game.GameResult) {
	if w, ok := result.Winner(); ok {
		stdlog.Printf("game ended, winner: %s", w.Nickname())
	}
}

func main() {
	host := flag.String("host", "localhost", "game server host")
	port := flag.Int("port", 5000, "game server port")
	code := flag.String("code", "", "join code")
	nickname := flag.String("nickname", "spectator", "nickname to join with")
	listen := flag.Int("listen", 8080, "HTTP port to serve the spectator UI on")
	flag.Parse()

	cfg := tanknet.Config{
		Host:     *host,
		Port:     *port,
		Code:     *code,
		Nickname: *nickname,
	}

	srv := web.NewServer()
	ctx := context.Background()
	client, err := tanknet.Dial(ctx, cfg, &spectator{srv: srv}, log.NewTextLogger(os.Stdout))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	go func() {
		if err := client.Run(ctx); err != nil {
			stdlog.Printf("session ended: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", *listen)
	stdlog.Printf("spectator UI on http://localhost:%d", *listen)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
