package itinerary

import (
	"fmt"
	"strings"
)

// Status is the booking state of an item
type Status uint8

const (
	StatusNone Status = iota
	StatusPending
	StatusBooked
	StatusConstraint
	StatusOptional
)

type statusInfo struct {
	name  string
	label string
	color string
}

var statusTable = map[Status]statusInfo{
	StatusNone:       {name: "", label: "", color: ""},
	StatusPending:    {name: "pending", label: "Pending", color: "#3258A8"},
	StatusBooked:     {name: "booked", label: "Booked", color: "#007A30"},
	StatusConstraint: {name: "constraint", label: "Constraint", color: "#BB2020"},
	StatusOptional:   {name: "optional", label: "Optional", color: "#4E4E4E"},
}

// ParseStatus looks a status up by name, case-insensitively. The empty string
// is StatusNone.
func ParseStatus(s string) (Status, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for status, info := range statusTable {
		if info.name == s {
			return status, nil
		}
	}
	return StatusNone, fmt.Errorf("unknown item status %q", s)
}

// String returns the stored name
func (s Status) String() string {
	return statusTable[s].name
}

// Label returns the display label
func (s Status) Label() string {
	return statusTable[s].label
}

// Color returns the display color, empty for StatusNone
func (s Status) Color() string {
	return statusTable[s].color
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	info, ok := statusTable[s]
	if !ok {
		return nil, fmt.Errorf("invalid item status %d", uint8(s))
	}
	return []byte(info.name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
