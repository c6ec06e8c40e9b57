package protocol

import (
	"errors"
	"fmt"
)

// Tag spaces. Each space has its own closed registry; a tag from one space
// never resolves in another.
const (
	SpacePacket     = "packet"
	SpaceOccupant   = "occupant"
	SpaceZoneStatus = "zone status"
)

var errMissingField = errors.New("required field is missing")

// MalformedFieldError reports a wire field whose shape or primitive kind
// does not match its record definition. Path is the dotted path from the
// payload root, e.g. "map.tiles[0][1][0].payload.turret.direction".
type MalformedFieldError struct {
	Path string
	Err  error
}

func (e *MalformedFieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed field %q: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed field %q", e.Path)
}

func (e *MalformedFieldError) Unwrap() error { return e.Err }

// UnknownVariantError reports a type tag with no decoder in its registry.
type UnknownVariantError struct {
	Space string
	Tag   string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Space, e.Tag)
}

// InvalidCombinationError reports an outgoing action that is logically
// contradictory: a rotation with neither field set, or a response built
// against a stale game state id.
type InvalidCombinationError struct {
	Reason string
}

func (e *InvalidCombinationError) Error() string {
	return fmt.Sprintf("invalid combination: %s", e.Reason)
}
