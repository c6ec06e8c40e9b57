package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tankbot/internal/game"
	tanknet "tankbot/internal/net"
)

// activeSession is the singleton game session (one per stdio process).
var activeSession *Session

// RegisterTools adds all game tools to the MCP server.
func RegisterTools(s *server.MCPServer) {
	s.AddTool(joinGameTool(), handleJoinGame)
	s.AddTool(getGameStateTool(), handleGetGameState)
	s.AddTool(queueMovementTool(), handleQueueMovement)
	s.AddTool(queueRotationTool(), handleQueueRotation)
	s.AddTool(queueShootTool(), handleQueueShoot)
	s.AddTool(queuePassTool(), handleQueuePass)
}

// --- Tool definitions ---

func joinGameTool() mcp.Tool {
	return mcp.NewTool("join_game",
		mcp.WithDescription("Join a tank game server. The game runs on its own tick schedule; "+
			"use get_game_state to observe and the queue_* tools to act. "+
			"A tick with nothing queued passes automatically."),
		mcp.WithString("host", mcp.Required(), mcp.Description("Server host")),
		mcp.WithNumber("port", mcp.Required(), mcp.Description("Server port")),
		mcp.WithString("nickname", mcp.Required(), mcp.Description("Bot nickname")),
		mcp.WithString("code", mcp.Description("Join code, if the server requires one")),
	)
}

func getGameStateTool() mcp.Tool {
	return mcp.NewTool("get_game_state",
		mcp.WithDescription("Get the latest decoded snapshot, lobby info and session events. Read-only. "+
			"Grid legend: '#' wall, '*' bullet, 'T' enemy tank, '@' your tank, '.' floor, ' ' fog."),
	)
}

func queueMovementTool() mcp.Tool {
	return mcp.NewTool("queue_movement",
		mcp.WithDescription("Queue a move for the next tick: drive the tank one tile forward or backward."),
		mcp.WithString("direction", mcp.Required(), mcp.Description("'forward' or 'backward'")),
	)
}

func queueRotationTool() mcp.Tool {
	return mcp.NewTool("queue_rotation",
		mcp.WithDescription("Queue a rotation for the next tick: quarter-turn the hull and/or the turret. "+
			"At least one of tank/turret must be given."),
		mcp.WithString("tank", mcp.Description("Hull rotation: 'left' or 'right'")),
		mcp.WithString("turret", mcp.Description("Turret rotation: 'left' or 'right'")),
	)
}

func queueShootTool() mcp.Tool {
	return mcp.NewTool("queue_shoot",
		mcp.WithDescription("Queue a shot for the next tick."),
	)
}

func queuePassTool() mcp.Tool {
	return mcp.NewTool("queue_pass",
		mcp.WithDescription("Explicitly pass the next tick, discarding any queued action."),
	)
}

// --- Tool handlers ---

func handleJoinGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession != nil {
		return mcp.NewToolResultError("Already in a game. Only one session at a time is supported."), nil
	}

	cfg := tanknet.Config{
		Host:     request.GetString("host", ""),
		Port:     request.GetInt("port", 0),
		Nickname: request.GetString("nickname", ""),
		Code:     request.GetString("code", ""),
	}

	sess, err := NewSession(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultErrorf("Failed to join: %v", err), nil
	}
	activeSession = sess

	return mcp.NewToolResultText(respondJSON(sess.snapshot())), nil
}

func handleGetGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use join_game first."), nil
	}

	sess := activeSession
	resp := sess.snapshot()
	if resp.GameOver {
		activeSession = nil
	}
	return mcp.NewToolResultText(respondJSON(resp)), nil
}

func handleQueueMovement(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use join_game first."), nil
	}

	var dir game.MovementDirection
	switch request.GetString("direction", "") {
	case "forward":
		dir = game.MovementForward
	case "backward":
		dir = game.MovementBackward
	default:
		return mcp.NewToolResultError("direction must be 'forward' or 'backward'"), nil
	}

	if err := activeSession.Queue(game.Movement{Direction: dir}); err != nil {
		return mcp.NewToolResultErrorf("Queue failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot())), nil
}

func handleQueueRotation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use join_game first."), nil
	}

	parse := func(v string) (*game.RotationDirection, bool) {
		switch v {
		case "":
			return nil, true
		case "left":
			return game.RotationPtr(game.RotationLeft), true
		case "right":
			return game.RotationPtr(game.RotationRight), true
		}
		return nil, false
	}

	tank, ok := parse(request.GetString("tank", ""))
	if !ok {
		return mcp.NewToolResultError("tank must be 'left' or 'right'"), nil
	}
	turret, ok := parse(request.GetString("turret", ""))
	if !ok {
		return mcp.NewToolResultError("turret must be 'left' or 'right'"), nil
	}
	if tank == nil && turret == nil {
		return mcp.NewToolResultError("rotation must turn the tank, the turret, or both"), nil
	}

	if err := activeSession.Queue(game.Rotation{Tank: tank, Turret: turret}); err != nil {
		return mcp.NewToolResultErrorf("Queue failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot())), nil
}

func handleQueueShoot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use join_game first."), nil
	}
	if err := activeSession.Queue(game.Shoot{}); err != nil {
		return mcp.NewToolResultErrorf("Queue failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot())), nil
}

func handleQueuePass(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if activeSession == nil {
		return mcp.NewToolResultError("No game is running. Use join_game first."), nil
	}
	if err := activeSession.Queue(game.Pass{}); err != nil {
		return mcp.NewToolResultErrorf("Queue failed: %v", err), nil
	}
	return mcp.NewToolResultText(respondJSON(activeSession.snapshot())), nil
}
