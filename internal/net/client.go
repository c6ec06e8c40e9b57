package net

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/websocket"

	"tankbot/internal/game"
	"tankbot/internal/log"
	"tankbot/internal/protocol"
)

// Handler receives the decoded session events. NextMove is called once
// per accepted snapshot; the returned action is encoded against that
// snapshot's id and sent back. Returning nil sends a pass.
type Handler interface {
	OnLobbyData(*game.LobbyData)
	NextMove(*game.GameState) game.ResponseAction
	OnGameEnded(*game.GameResult)
}

// Client is a websocket session with a game server. It decodes incoming
// packets, builds domain snapshots and drives a Handler. The client owns
// all cross-snapshot bookkeeping: pong replies, the strictly-increasing
// tick rule, and the one-response-per-snapshot rule.
type Client struct {
	conn    *websocket.Conn
	cfg     Config
	handler Handler
	logger  log.EventLogger

	mu        sync.Mutex
	playerID  string
	lastTick  int
	stateID   string
	responded bool
}

// Dial connects to the server described by cfg.
func Dial(ctx context.Context, cfg Config, handler Handler, logger log.EventLogger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	conn, _, err := websocket.Dial(ctx, cfg.URL(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.URL(), err)
	}
	logger.Log(log.NewConnectedEvent(cfg.URL()))
	return &Client{
		conn:     conn,
		cfg:      cfg,
		handler:  handler,
		logger:   logger,
		lastTick: -1,
	}, nil
}

// PlayerID returns the id the server assigned in the lobby. Empty before
// lobby_data arrives.
func (c *Client) PlayerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playerID
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}

// Run reads messages until the game ends, the context is cancelled or the
// connection fails. Malformed messages are logged and dropped whole; no
// partially decoded snapshot ever reaches the handler.
func (c *Client) Run(ctx context.Context) error {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.logger.Log(log.NewDisconnectedEvent(c.lastTick, err.Error()))
			return fmt.Errorf("read: %w", err)
		}
		done, err := c.handleMessage(ctx, data)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (c *Client) handleMessage(ctx context.Context, data []byte) (bool, error) {
	pkt, err := protocol.DecodePacket(data)
	if err != nil {
		c.logger.Log(log.NewDecodeErrorEvent(c.lastTick, err))
		return false, nil
	}

	switch pkt.Type {
	case protocol.TagPing:
		pong, err := protocol.EncodePong()
		if err != nil {
			return false, err
		}
		if err := c.write(ctx, pong); err != nil {
			return false, err
		}
		c.logger.Log(log.NewPongEvent(c.lastTick))

	case protocol.TagConnectionAccepted:
		// Connection already logged at dial time.

	case protocol.TagConnectionRejected:
		reason := pkt.Payload.(*protocol.ConnectionRejectedPayload).Reason
		c.logger.Log(log.NewConnectionRejectedEvent(reason))
		return false, fmt.Errorf("connection rejected: %s", reason)

	case protocol.TagLobbyData:
		lobby, err := game.BuildLobbyData(pkt.Payload.(*protocol.LobbyDataPayload))
		if err != nil {
			c.logger.Log(log.NewDecodeErrorEvent(c.lastTick, err))
			return false, nil
		}
		c.mu.Lock()
		c.playerID = lobby.PlayerID
		c.mu.Unlock()
		c.logger.Log(log.NewLobbyJoinedEvent(c.cfg.Nickname,
			len(lobby.Players), lobby.Settings.NumberOfPlayers))
		c.handler.OnLobbyData(lobby)

	case protocol.TagGameStarted:
		c.logger.Log(log.NewGameStartedEvent())

	case protocol.TagGameState:
		return false, c.handleGameState(ctx, pkt.Payload.(*protocol.GameStatePayload))

	case protocol.TagGameEnd:
		result, err := game.BuildGameResult(pkt.Payload.(*protocol.GameEndPayload))
		if err != nil {
			c.logger.Log(log.NewDecodeErrorEvent(c.lastTick, err))
			return false, nil
		}
		winner := ""
		if w, ok := result.Winner(); ok {
			winner = w.Nickname()
		}
		c.logger.Log(log.NewGameEndedEvent(c.lastTick, winner))
		c.handler.OnGameEnded(result)
		return true, nil
	}

	return false, nil
}

func (c *Client) handleGameState(ctx context.Context, payload *protocol.GameStatePayload) error {
	c.mu.Lock()
	if payload.Tick <= c.lastTick {
		lastTick := c.lastTick
		c.mu.Unlock()
		c.logger.Log(log.NewStaleSnapshotEvent(payload.Tick, lastTick))
		return nil
	}
	playerID := c.playerID
	c.mu.Unlock()

	state, err := game.BuildGameState(payload, playerID)
	if err != nil {
		c.logger.Log(log.NewDecodeErrorEvent(payload.Tick, err))
		return nil
	}

	c.mu.Lock()
	c.lastTick = state.Tick
	c.stateID = state.ID
	c.responded = false
	c.mu.Unlock()
	c.logger.Log(log.NewSnapshotEvent(state.Tick, state.ID))

	action := c.handler.NextMove(state)
	if action == nil {
		action = game.Pass{}
	}
	return c.Respond(ctx, state.ID, action)
}

// Respond sends the tick's answer. The id must match the latest accepted
// snapshot and may be answered exactly once.
func (c *Client) Respond(ctx context.Context, gameStateID string, action game.ResponseAction) error {
	c.mu.Lock()
	if gameStateID != c.stateID {
		c.mu.Unlock()
		return &protocol.InvalidCombinationError{
			Reason: fmt.Sprintf("response for stale game state %q", gameStateID),
		}
	}
	if c.responded {
		c.mu.Unlock()
		return &protocol.InvalidCombinationError{
			Reason: fmt.Sprintf("game state %q already answered", gameStateID),
		}
	}
	c.responded = true
	tick := c.lastTick
	c.mu.Unlock()

	data, err := action.Encode(gameStateID)
	if err != nil {
		// Nothing was sent; the tick may still be answered.
		c.mu.Lock()
		c.responded = false
		c.mu.Unlock()
		var combo *protocol.InvalidCombinationError
		if errors.As(err, &combo) {
			c.logger.Log(log.NewDecodeErrorEvent(tick, err))
		}
		return err
	}
	if err := c.write(ctx, data); err != nil {
		return err
	}
	c.logger.Log(log.NewActionSentEvent(tick, fmt.Sprintf("%T", action)))
	return nil
}

func (c *Client) write(ctx context.Context, data []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, data)
}
