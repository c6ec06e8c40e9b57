package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Raw wire records. Decoding is two-phase: the envelope carries an opaque
// payload, and each record decoder walks its own key/value tree so that
// failures can name the exact field path. Optional wire fields decode to
// nil pointers, never to zero values. Unknown extra fields are ignored.

// ServerSettings mirrors the server_settings object of a lobby_data payload.
type ServerSettings struct {
	GridDimension     int
	NumberOfPlayers   int
	Seed              int
	Ticks             int
	BroadcastInterval int
	EagerBroadcast    bool
}

// RawPlayer is one entry of a players array. Score, ping and regen ticks
// are present only in the contexts that reveal them.
type RawPlayer struct {
	ID           string
	Nickname     string
	Color        uint32
	Score        *int
	Ping         *int
	TicksToRegen *int
}

// RawTurret is the turret sub-record of a tank. The bullet fields are only
// on the wire for the receiving player's own tank.
type RawTurret struct {
	Direction          int
	BulletCount        *int
	TicksToRegenBullet *int
}

// RawTank is the payload of a "tank" tile occupant. Health is only on the
// wire for the receiving player's own tank; absent health means dead.
type RawTank struct {
	OwnerID   string
	Direction int
	Turret    RawTurret
	Health    *int
}

// RawBullet is the payload of a "bullet" tile occupant.
type RawBullet struct {
	ID        int
	Speed     *float64
	Direction *int
}

// RawWall is the payload of a "wall" tile occupant. Walls carry no data.
type RawWall struct{}

// RawTileObject is one decoded entry of a tile's occupant array. Exactly
// one of the payload pointers is set, matching Type.
type RawTileObject struct {
	Type   string
	Wall   *RawWall
	Bullet *RawBullet
	Tank   *RawTank
}

// RawZoneStatus is a zone's resolved status variant. Only the fields that
// belong to the variant named by Tag are ever set.
type RawZoneStatus struct {
	Tag            string
	PlayerID       *string
	CapturedByID   *string
	RetakenByID    *string
	RemainingTicks *int
}

// RawZone is one entry of a map's zones array.
type RawZone struct {
	X      int
	Y      int
	Width  int
	Height int
	Index  int
	Status RawZoneStatus
}

// RawMap is the map object of a game_state payload. Tiles is indexed
// [x][y]; each cell holds the tile's decoded occupant entries (usually
// zero or one). Visibility is one string per x row, one '1'/'0' per y.
type RawMap struct {
	Tiles      [][][]RawTileObject
	Zones      []RawZone
	Visibility []string
}

// LobbyDataPayload is the payload of a lobby_data packet.
type LobbyDataPayload struct {
	PlayerID       string
	Players        []RawPlayer
	ServerSettings ServerSettings
}

// GameStatePayload is the payload of a game_state packet.
type GameStatePayload struct {
	ID      string
	Tick    int
	Players []RawPlayer
	Map     RawMap
}

// GameEndPayload is the payload of a game_end packet.
type GameEndPayload struct {
	Players []RawPlayer
}

// ConnectionRejectedPayload is the payload of a connection_rejected packet.
type ConnectionRejectedPayload struct {
	Reason string
}

// --- Field helpers ---

type rawObject map[string]json.RawMessage

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func decodeObject(data json.RawMessage, path string) (rawObject, error) {
	if len(data) == 0 || isNull(data) {
		return nil, &MalformedFieldError{Path: path, Err: errMissingField}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, &MalformedFieldError{Path: path, Err: err}
	}
	return obj, nil
}

func decodeArray(data json.RawMessage, path string) ([]json.RawMessage, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, &MalformedFieldError{Path: path, Err: err}
	}
	return arr, nil
}

// require unmarshals a required field into dst. Missing or null counts as
// malformed; absence is only legal for optional fields.
func (o rawObject) require(path, key string, dst any) error {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return &MalformedFieldError{Path: joinPath(path, key), Err: errMissingField}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &MalformedFieldError{Path: joinPath(path, key), Err: err}
	}
	return nil
}

func (o rawObject) optInt(path, key string) (*int, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &MalformedFieldError{Path: joinPath(path, key), Err: err}
	}
	return &v, nil
}

func (o rawObject) optFloat(path, key string) (*float64, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &MalformedFieldError{Path: joinPath(path, key), Err: err}
	}
	return &v, nil
}

func (o rawObject) optString(path, key string) (*string, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, &MalformedFieldError{Path: joinPath(path, key), Err: err}
	}
	return &v, nil
}

// requireDirection reads a required cardinal direction (0..3).
func (o rawObject) requireDirection(path, key string) (int, error) {
	var v int
	if err := o.require(path, key, &v); err != nil {
		return 0, err
	}
	if v < 0 || v > 3 {
		return 0, &MalformedFieldError{
			Path: joinPath(path, key),
			Err:  fmt.Errorf("direction %d out of range", v),
		}
	}
	return v, nil
}

// --- Record decoders ---

func decodeServerSettings(data json.RawMessage, path string) (ServerSettings, error) {
	var s ServerSettings
	o, err := decodeObject(data, path)
	if err != nil {
		return s, err
	}
	if err := o.require(path, "grid_dimension", &s.GridDimension); err != nil {
		return s, err
	}
	if err := o.require(path, "number_of_players", &s.NumberOfPlayers); err != nil {
		return s, err
	}
	if err := o.require(path, "seed", &s.Seed); err != nil {
		return s, err
	}
	if err := o.require(path, "ticks", &s.Ticks); err != nil {
		return s, err
	}
	if err := o.require(path, "broadcast_interval", &s.BroadcastInterval); err != nil {
		return s, err
	}
	if err := o.require(path, "eager_broadcast", &s.EagerBroadcast); err != nil {
		return s, err
	}
	return s, nil
}

func decodePlayer(data json.RawMessage, path string) (RawPlayer, error) {
	var p RawPlayer
	o, err := decodeObject(data, path)
	if err != nil {
		return p, err
	}
	if err := o.require(path, "id", &p.ID); err != nil {
		return p, err
	}
	if err := o.require(path, "nickname", &p.Nickname); err != nil {
		return p, err
	}
	if err := o.require(path, "color", &p.Color); err != nil {
		return p, err
	}
	if p.Score, err = o.optInt(path, "score"); err != nil {
		return p, err
	}
	if p.Ping, err = o.optInt(path, "ping"); err != nil {
		return p, err
	}
	if p.TicksToRegen, err = o.optInt(path, "ticks_to_regen"); err != nil {
		return p, err
	}
	return p, nil
}

func decodePlayers(data json.RawMessage, path string) ([]RawPlayer, error) {
	arr, err := decodeArray(data, path)
	if err != nil {
		return nil, err
	}
	players := make([]RawPlayer, 0, len(arr))
	for i, raw := range arr {
		p, err := decodePlayer(raw, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

func decodeTurret(data json.RawMessage, path string) (RawTurret, error) {
	var t RawTurret
	o, err := decodeObject(data, path)
	if err != nil {
		return t, err
	}
	if t.Direction, err = o.requireDirection(path, "direction"); err != nil {
		return t, err
	}
	if t.BulletCount, err = o.optInt(path, "bullet_count"); err != nil {
		return t, err
	}
	if t.TicksToRegenBullet, err = o.optInt(path, "ticks_to_regen_bullet"); err != nil {
		return t, err
	}
	return t, nil
}

func decodeTank(data json.RawMessage, path string) (RawTank, error) {
	var t RawTank
	o, err := decodeObject(data, path)
	if err != nil {
		return t, err
	}
	if err := o.require(path, "owner_id", &t.OwnerID); err != nil {
		return t, err
	}
	if t.Direction, err = o.requireDirection(path, "direction"); err != nil {
		return t, err
	}
	turretRaw, ok := o["turret"]
	if !ok {
		return t, &MalformedFieldError{Path: joinPath(path, "turret"), Err: errMissingField}
	}
	if t.Turret, err = decodeTurret(turretRaw, joinPath(path, "turret")); err != nil {
		return t, err
	}
	if t.Health, err = o.optInt(path, "health"); err != nil {
		return t, err
	}
	return t, nil
}

func decodeBullet(data json.RawMessage, path string) (RawBullet, error) {
	var b RawBullet
	o, err := decodeObject(data, path)
	if err != nil {
		return b, err
	}
	if err := o.require(path, "id", &b.ID); err != nil {
		return b, err
	}
	if b.Speed, err = o.optFloat(path, "speed"); err != nil {
		return b, err
	}
	if b.Direction, err = o.optInt(path, "direction"); err != nil {
		return b, err
	}
	if b.Direction != nil && (*b.Direction < 0 || *b.Direction > 3) {
		return b, &MalformedFieldError{
			Path: joinPath(path, "direction"),
			Err:  fmt.Errorf("direction %d out of range", *b.Direction),
		}
	}
	return b, nil
}

// --- Zone status variants ---

func decodeNeutralStatus(rawObject, string) (RawZoneStatus, error) {
	return RawZoneStatus{}, nil
}

func decodeBeingCapturedStatus(o rawObject, path string) (RawZoneStatus, error) {
	var s RawZoneStatus
	var playerID string
	if err := o.require(path, "player_id", &playerID); err != nil {
		return s, err
	}
	var remaining int
	if err := o.require(path, "remaining_ticks", &remaining); err != nil {
		return s, err
	}
	s.PlayerID = &playerID
	s.RemainingTicks = &remaining
	return s, nil
}

func decodeCapturedStatus(o rawObject, path string) (RawZoneStatus, error) {
	var s RawZoneStatus
	var playerID string
	if err := o.require(path, "player_id", &playerID); err != nil {
		return s, err
	}
	s.PlayerID = &playerID
	return s, nil
}

func decodeBeingContestedStatus(o rawObject, path string) (RawZoneStatus, error) {
	var s RawZoneStatus
	var err error
	// captured_by_id is absent while the zone is contested before anyone
	// has held it.
	if s.CapturedByID, err = o.optString(path, "captured_by_id"); err != nil {
		return s, err
	}
	return s, nil
}

func decodeBeingRetakenStatus(o rawObject, path string) (RawZoneStatus, error) {
	var s RawZoneStatus
	var capturedBy, retakenBy string
	var remaining int
	if err := o.require(path, "captured_by_id", &capturedBy); err != nil {
		return s, err
	}
	if err := o.require(path, "retaken_by_id", &retakenBy); err != nil {
		return s, err
	}
	if err := o.require(path, "remaining_ticks", &remaining); err != nil {
		return s, err
	}
	s.CapturedByID = &capturedBy
	s.RetakenByID = &retakenBy
	s.RemainingTicks = &remaining
	return s, nil
}

func decodeZoneStatus(data json.RawMessage, path string) (RawZoneStatus, error) {
	o, err := decodeObject(data, path)
	if err != nil {
		return RawZoneStatus{}, err
	}
	var tag string
	if err := o.require(path, "type", &tag); err != nil {
		return RawZoneStatus{}, err
	}
	dec, ok := zoneStatusDecoders[tag]
	if !ok {
		return RawZoneStatus{}, &UnknownVariantError{Space: SpaceZoneStatus, Tag: tag}
	}
	s, err := dec(o, path)
	if err != nil {
		return RawZoneStatus{}, err
	}
	s.Tag = tag
	return s, nil
}

func decodeZone(data json.RawMessage, path string) (RawZone, error) {
	var z RawZone
	o, err := decodeObject(data, path)
	if err != nil {
		return z, err
	}
	if err := o.require(path, "x", &z.X); err != nil {
		return z, err
	}
	if err := o.require(path, "y", &z.Y); err != nil {
		return z, err
	}
	if err := o.require(path, "width", &z.Width); err != nil {
		return z, err
	}
	if err := o.require(path, "height", &z.Height); err != nil {
		return z, err
	}
	if err := o.require(path, "index", &z.Index); err != nil {
		return z, err
	}
	statusRaw, ok := o["status"]
	if !ok {
		return z, &MalformedFieldError{Path: joinPath(path, "status"), Err: errMissingField}
	}
	if z.Status, err = decodeZoneStatus(statusRaw, joinPath(path, "status")); err != nil {
		return z, err
	}
	return z, nil
}

// --- Tile occupants ---

func decodeTileObject(data json.RawMessage, path string) (RawTileObject, error) {
	o, err := decodeObject(data, path)
	if err != nil {
		return RawTileObject{}, err
	}
	var tag string
	if err := o.require(path, "type", &tag); err != nil {
		return RawTileObject{}, err
	}
	dec, ok := occupantDecoders[tag]
	if !ok {
		return RawTileObject{}, &UnknownVariantError{Space: SpaceOccupant, Tag: tag}
	}
	// Walls omit the payload object entirely.
	payload, ok := o["payload"]
	if !ok || isNull(payload) {
		payload = json.RawMessage("{}")
	}
	return dec(payload, joinPath(path, "payload"))
}

// --- Map ---

func decodeMap(data json.RawMessage, path string) (RawMap, error) {
	var m RawMap
	o, err := decodeObject(data, path)
	if err != nil {
		return m, err
	}

	tilesRaw, ok := o["tiles"]
	if !ok {
		return m, &MalformedFieldError{Path: joinPath(path, "tiles"), Err: errMissingField}
	}
	rows, err := decodeArray(tilesRaw, joinPath(path, "tiles"))
	if err != nil {
		return m, err
	}
	m.Tiles = make([][][]RawTileObject, 0, len(rows))
	for x, rowRaw := range rows {
		rowPath := fmt.Sprintf("%s.tiles[%d]", path, x)
		cells, err := decodeArray(rowRaw, rowPath)
		if err != nil {
			return m, err
		}
		row := make([][]RawTileObject, 0, len(cells))
		for y, cellRaw := range cells {
			cellPath := fmt.Sprintf("%s[%d]", rowPath, y)
			entries, err := decodeArray(cellRaw, cellPath)
			if err != nil {
				return m, err
			}
			objs := make([]RawTileObject, 0, len(entries))
			for i, entryRaw := range entries {
				obj, err := decodeTileObject(entryRaw, fmt.Sprintf("%s[%d]", cellPath, i))
				if err != nil {
					return m, err
				}
				objs = append(objs, obj)
			}
			row = append(row, objs)
		}
		if x > 0 && len(row) != len(m.Tiles[0]) {
			return m, &MalformedFieldError{
				Path: rowPath,
				Err:  fmt.Errorf("row has %d tiles, expected %d", len(row), len(m.Tiles[0])),
			}
		}
		m.Tiles = append(m.Tiles, row)
	}

	zonesRaw, ok := o["zones"]
	if !ok {
		return m, &MalformedFieldError{Path: joinPath(path, "zones"), Err: errMissingField}
	}
	zoneArr, err := decodeArray(zonesRaw, joinPath(path, "zones"))
	if err != nil {
		return m, err
	}
	m.Zones = make([]RawZone, 0, len(zoneArr))
	for i, zoneRaw := range zoneArr {
		z, err := decodeZone(zoneRaw, fmt.Sprintf("%s.zones[%d]", path, i))
		if err != nil {
			return m, err
		}
		m.Zones = append(m.Zones, z)
	}

	if err := o.require(path, "visibility", &m.Visibility); err != nil {
		return m, err
	}
	if len(m.Visibility) != len(m.Tiles) {
		return m, &MalformedFieldError{
			Path: joinPath(path, "visibility"),
			Err:  fmt.Errorf("%d rows, expected %d", len(m.Visibility), len(m.Tiles)),
		}
	}
	for x, row := range m.Visibility {
		if len(row) != len(m.Tiles[x]) {
			return m, &MalformedFieldError{
				Path: fmt.Sprintf("%s.visibility[%d]", path, x),
				Err:  fmt.Errorf("%d columns, expected %d", len(row), len(m.Tiles[x])),
			}
		}
	}

	return m, nil
}

// --- Top-level payloads ---

func decodeLobbyData(data json.RawMessage) (any, error) {
	var p LobbyDataPayload
	o, err := decodeObject(data, "")
	if err != nil {
		return nil, err
	}
	if err := o.require("", "player_id", &p.PlayerID); err != nil {
		return nil, err
	}
	playersRaw, ok := o["players"]
	if !ok {
		return nil, &MalformedFieldError{Path: "players", Err: errMissingField}
	}
	if p.Players, err = decodePlayers(playersRaw, "players"); err != nil {
		return nil, err
	}
	settingsRaw, ok := o["server_settings"]
	if !ok {
		return nil, &MalformedFieldError{Path: "server_settings", Err: errMissingField}
	}
	if p.ServerSettings, err = decodeServerSettings(settingsRaw, "server_settings"); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeGameState(data json.RawMessage) (any, error) {
	var p GameStatePayload
	o, err := decodeObject(data, "")
	if err != nil {
		return nil, err
	}
	if err := o.require("", "id", &p.ID); err != nil {
		return nil, err
	}
	if err := o.require("", "tick", &p.Tick); err != nil {
		return nil, err
	}
	playersRaw, ok := o["players"]
	if !ok {
		return nil, &MalformedFieldError{Path: "players", Err: errMissingField}
	}
	if p.Players, err = decodePlayers(playersRaw, "players"); err != nil {
		return nil, err
	}
	mapRaw, ok := o["map"]
	if !ok {
		return nil, &MalformedFieldError{Path: "map", Err: errMissingField}
	}
	if p.Map, err = decodeMap(mapRaw, "map"); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeGameEnd(data json.RawMessage) (any, error) {
	var p GameEndPayload
	o, err := decodeObject(data, "")
	if err != nil {
		return nil, err
	}
	playersRaw, ok := o["players"]
	if !ok {
		return nil, &MalformedFieldError{Path: "players", Err: errMissingField}
	}
	if p.Players, err = decodePlayers(playersRaw, "players"); err != nil {
		return nil, err
	}
	return &p, nil
}

func decodeConnectionRejected(data json.RawMessage) (any, error) {
	var p ConnectionRejectedPayload
	o, err := decodeObject(data, "")
	if err != nil {
		return nil, err
	}
	if err := o.require("", "reason", &p.Reason); err != nil {
		return nil, err
	}
	return &p, nil
}
