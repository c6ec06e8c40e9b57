package protocol

import (
	"encoding/json"
	"fmt"
)

// Incoming packet tags.
const (
	TagPing               = "ping"
	TagConnectionAccepted = "connection_accepted"
	TagConnectionRejected = "connection_rejected"
	TagLobbyData          = "lobby_data"
	TagGameStarted        = "game_started"
	TagGameState          = "game_state"
	TagGameEnd            = "game_end"
)

// Outgoing packet tags.
const (
	TagPong     = "pong"
	TagMovement = "movement"
	TagRotation = "rotation"
	TagShoot    = "shoot"
	TagPass     = "pass"
)

// Occupant tags.
const (
	TagWall   = "wall"
	TagBullet = "bullet"
	TagTank   = "tank"
)

// Zone status tags.
const (
	TagNeutral        = "neutral"
	TagBeingCaptured  = "being_captured"
	TagCaptured       = "captured"
	TagBeingContested = "being_contested"
	TagBeingRetaken   = "being_retaken"
)

// Envelope is the outermost wire shape of every message, in and out.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Packet is a decoded incoming message. Payload is nil for the tags that
// carry none (ping, connection_accepted, game_started); otherwise it is
// one of *LobbyDataPayload, *GameStatePayload, *GameEndPayload,
// *ConnectionRejectedPayload.
type Packet struct {
	Type    string
	Payload any
}

type payloadDecoder func(json.RawMessage) (any, error)

func decodeNoPayload(json.RawMessage) (any, error) { return nil, nil }

// Each tag space is a fixed map. Dispatch never derives a name from the
// tag; an absent key is the complete definition of "unknown".
var packetDecoders = map[string]payloadDecoder{
	TagPing:               decodeNoPayload,
	TagConnectionAccepted: decodeNoPayload,
	TagConnectionRejected: decodeConnectionRejected,
	TagLobbyData:          decodeLobbyData,
	TagGameStarted:        decodeNoPayload,
	TagGameState:          decodeGameState,
	TagGameEnd:            decodeGameEnd,
}

type occupantDecoder func(json.RawMessage, string) (RawTileObject, error)

var occupantDecoders = map[string]occupantDecoder{
	TagWall:   decodeWallOccupant,
	TagBullet: decodeBulletOccupant,
	TagTank:   decodeTankOccupant,
}

func decodeWallOccupant(json.RawMessage, string) (RawTileObject, error) {
	return RawTileObject{Type: TagWall, Wall: &RawWall{}}, nil
}

func decodeBulletOccupant(data json.RawMessage, path string) (RawTileObject, error) {
	b, err := decodeBullet(data, path)
	if err != nil {
		return RawTileObject{}, err
	}
	return RawTileObject{Type: TagBullet, Bullet: &b}, nil
}

func decodeTankOccupant(data json.RawMessage, path string) (RawTileObject, error) {
	t, err := decodeTank(data, path)
	if err != nil {
		return RawTileObject{}, err
	}
	return RawTileObject{Type: TagTank, Tank: &t}, nil
}

type zoneStatusDecoder func(rawObject, string) (RawZoneStatus, error)

var zoneStatusDecoders = map[string]zoneStatusDecoder{
	TagNeutral:        decodeNeutralStatus,
	TagBeingCaptured:  decodeBeingCapturedStatus,
	TagCaptured:       decodeCapturedStatus,
	TagBeingContested: decodeBeingContestedStatus,
	TagBeingRetaken:   decodeBeingRetakenStatus,
}

// DecodePacket resolves one incoming message: envelope, tag lookup, then
// the tag's payload decoder. Any failure aborts the whole message.
func DecodePacket(data []byte) (Packet, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Packet{}, &MalformedFieldError{Path: "", Err: err}
	}
	if env.Type == "" {
		return Packet{}, &MalformedFieldError{Path: "type", Err: errMissingField}
	}
	dec, ok := packetDecoders[env.Type]
	if !ok {
		return Packet{}, &UnknownVariantError{Space: SpacePacket, Tag: env.Type}
	}
	payload, err := dec(env.Payload)
	if err != nil {
		return Packet{}, fmt.Errorf("decode %s: %w", env.Type, err)
	}
	return Packet{Type: env.Type, Payload: payload}, nil
}
