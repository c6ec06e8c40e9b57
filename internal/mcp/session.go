package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tankbot/internal/game"
	"tankbot/internal/log"
	tanknet "tankbot/internal/net"
)

// Session wraps a websocket client for an LLM driver. The server ticks on
// its own schedule, so tools never block on the game: the driver queues
// the next action and polls the latest snapshot. A tick with nothing
// queued is passed.
type Session struct {
	client *tanknet.Client
	logger *log.MemoryLogger

	mu       sync.Mutex
	lobby    *game.LobbyData
	latest   *game.GameState
	queued   game.ResponseAction
	result   *game.GameResult
	runErr   error
	done     bool
	consumed int
}

// NewSession dials the server and starts the read loop. The session acts
// as the client's handler.
func NewSession(ctx context.Context, cfg tanknet.Config) (*Session, error) {
	sess := &Session{logger: log.NewMemoryLogger()}
	client, err := tanknet.Dial(ctx, cfg, sess, sess.logger)
	if err != nil {
		return nil, err
	}
	sess.client = client

	go func() {
		err := client.Run(context.Background())
		sess.mu.Lock()
		sess.done = true
		sess.runErr = err
		sess.mu.Unlock()
	}()

	return sess, nil
}

// OnLobbyData implements net.Handler.
func (s *Session) OnLobbyData(lobby *game.LobbyData) {
	s.mu.Lock()
	s.lobby = lobby
	s.mu.Unlock()
}

// NextMove implements net.Handler. It pops the queued action, if any.
func (s *Session) NextMove(state *game.GameState) game.ResponseAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = state
	action := s.queued
	s.queued = nil
	if action == nil {
		return game.Pass{}
	}
	return action
}

// OnGameEnded implements net.Handler.
func (s *Session) OnGameEnded(result *game.GameResult) {
	s.mu.Lock()
	s.result = result
	s.done = true
	s.mu.Unlock()
}

// Queue stores the action for the next snapshot, replacing any previous
// one that has not been consumed yet.
func (s *Session) Queue(action game.ResponseAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return fmt.Errorf("game is over")
	}
	s.queued = action
	return nil
}

// Close tears the session down.
func (s *Session) Close() error {
	return s.client.Close()
}

// drainEvents returns the session events logged since the last drain.
func (s *Session) drainEvents() []log.GameEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.logger.Events()
	fresh := events[s.consumed:]
	s.consumed = len(events)
	return fresh
}

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Events   []string           `json:"events"`
	Lobby    *LobbyView         `json:"lobby,omitempty"`
	State    *tanknet.StateView `json:"state,omitempty"`
	Queued   string             `json:"queued,omitempty"`
	GameOver bool               `json:"game_over"`
	Winner   string             `json:"winner,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// LobbyView is the lobby as presented in the tool response JSON.
type LobbyView struct {
	PlayerID      string   `json:"player_id"`
	Players       []string `json:"players"`
	GridDimension int      `json:"grid_dimension"`
	Ticks         int      `json:"ticks"`
}

// snapshot builds a ToolResponse from the session's current state.
func (s *Session) snapshot() *ToolResponse {
	resp := &ToolResponse{Events: []string{}}
	for _, e := range s.drainEvents() {
		resp.Events = append(resp.Events, log.FormatEvent(e))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lobby != nil {
		lv := &LobbyView{
			PlayerID:      s.lobby.PlayerID,
			GridDimension: s.lobby.Settings.GridDimension,
			Ticks:         s.lobby.Settings.Ticks,
		}
		for _, p := range s.lobby.Players {
			lv.Players = append(lv.Players, p.Nickname())
		}
		resp.Lobby = lv
	}
	if s.latest != nil {
		resp.State = tanknet.BuildStateView(s.latest)
	}
	if s.queued != nil {
		resp.Queued = fmt.Sprintf("%T", s.queued)
	}
	if s.done {
		resp.GameOver = true
		if s.result != nil {
			if w, ok := s.result.Winner(); ok {
				resp.Winner = w.Nickname()
			}
		}
		if s.runErr != nil {
			resp.Error = s.runErr.Error()
		}
	}
	return resp
}

// respondJSON marshals a ToolResponse to a JSON string.
func respondJSON(resp *ToolResponse) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
