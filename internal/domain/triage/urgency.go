package triage

import (
	"encoding/json"
	"fmt"
)

// Urgency is the four-tier triage classification. The ordinal values define
// the severity ordering used by the decision engine, lowest first.
type Urgency int

const (
	White Urgency = iota
	Green
	Yellow
	Red
)

var urgencyNames = map[Urgency]string{
	White:  "white",
	Green:  "green",
	Yellow: "yellow",
	Red:    "red",
}

var urgencyValues = map[string]Urgency{
	"white":  White,
	"green":  Green,
	"yellow": Yellow,
	"red":    Red,
}

func (u Urgency) String() string {
	if s, ok := urgencyNames[u]; ok {
		return s
	}
	return fmt.Sprintf("Urgency(%d)", int(u))
}

// Valid reports whether u is one of the four defined tiers.
func (u Urgency) Valid() bool {
	_, ok := urgencyNames[u]
	return ok
}

// Escalate raises the urgency by exactly one step. Red is the ceiling and
// escalates to itself.
func (u Urgency) Escalate() Urgency {
	if u >= Red {
		return Red
	}
	return u + 1
}

// ParseUrgency converts a wire string into an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	u, ok := urgencyValues[s]
	if !ok {
		return White, fmt.Errorf("invalid urgency level: %q", s)
	}
	return u, nil
}

func (u Urgency) MarshalJSON() ([]byte, error) {
	s, ok := urgencyNames[u]
	if !ok {
		return nil, fmt.Errorf("cannot marshal urgency %d", int(u))
	}
	return json.Marshal(s)
}

func (u *Urgency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseUrgency(s)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
