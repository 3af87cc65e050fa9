package collision

import (
	"encoding/json"
	"fmt"

	"github.com/cxd309/evasion-engine/internal/kinematics"
)

// Side names the face of the reference body that is struck first.
type Side int

const (
	SideLeft Side = iota
	SideTop
	SideRight
	SideBottom
	SideNone
)

var sideNames = [...]string{"left", "top", "right", "bottom", "none"}

func (s Side) String() string {
	if s < SideLeft || s > SideNone {
		return "unknown"
	}
	return sideNames[s]
}

// Horizontal reports whether s is LEFT or RIGHT.
func (s Side) Horizontal() bool { return s == SideLeft || s == SideRight }

// Vertical reports whether s is TOP or BOTTOM.
func (s Side) Vertical() bool { return s == SideTop || s == SideBottom }

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	for i, name := range sideNames {
		if name == string(text) {
			*s = Side(i)
			return nil
		}
	}
	return fmt.Errorf("unknown side %q", text)
}

// HitResult is the earliest predicted contact between two bodies.
// Time is kinematics.Never and Side is SideNone when no contact is predicted.
type HitResult struct {
	Time float64 `msgpack:"time"`
	Side Side    `msgpack:"side"`
}

// NoHit is the result reported when no axis yields a forward-time contact.
var NoHit = HitResult{Time: kinematics.Never, Side: SideNone}

// Never reports whether no contact is predicted.
func (h HitResult) Never() bool { return kinematics.IsNever(h.Time) }

// hitResultJSON is the wire shape of a HitResult; JSON has no infinity, so a
// missing contact is encoded as a null time.
type hitResultJSON struct {
	Time *float64 `json:"time"`
	Side Side     `json:"side"`
}

// MarshalJSON implements json.Marshaler.
func (h HitResult) MarshalJSON() ([]byte, error) {
	aux := hitResultJSON{Side: h.Side}
	if !h.Never() {
		t := h.Time
		aux.Time = &t
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *HitResult) UnmarshalJSON(data []byte) error {
	var aux hitResultJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	h.Side = aux.Side
	h.Time = kinematics.Never
	if aux.Time != nil {
		h.Time = *aux.Time
	}
	return nil
}
