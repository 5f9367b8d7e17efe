package events

import "time"

// Event is the envelope that flows through the event bus.
type Event struct {
	Type      EventType
	MatchID   string
	Timestamp time.Time
	Payload   any
}

type EventType string

const (
	EventPointScored   EventType = "point_scored"
	EventSetFinished   EventType = "set_finished"
	EventMatchFinished EventType = "match_finished"
)
