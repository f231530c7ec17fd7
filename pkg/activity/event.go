package activity

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Event is a domain action forwarded to activity hooks.
type Event struct {
	Verb           string
	ActorID        string
	UserID         string
	TenantID       string
	ObjectType     string
	ObjectID       string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	OccurredAt     time.Time
}

// Valid reports whether the event carries the fields every hook requires.
func (e Event) Valid() bool {
	return e.Verb != "" && e.ObjectType != ""
}

// NormalizeEvent trims identifiers, fills OccurredAt and clones reference fields.
func NormalizeEvent(evt Event) Event {
	out := Event{
		Verb:           strings.TrimSpace(evt.Verb),
		ActorID:        strings.TrimSpace(evt.ActorID),
		UserID:         strings.TrimSpace(evt.UserID),
		TenantID:       strings.TrimSpace(evt.TenantID),
		ObjectType:     strings.TrimSpace(evt.ObjectType),
		ObjectID:       strings.TrimSpace(evt.ObjectID),
		Channel:        strings.TrimSpace(evt.Channel),
		DefinitionCode: strings.TrimSpace(evt.DefinitionCode),
		Recipients:     slices.Clone(evt.Recipients),
		Metadata:       maps.Clone(evt.Metadata),
		OccurredAt:     evt.OccurredAt,
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}
	if out.OccurredAt.IsZero() {
		out.OccurredAt = time.Now().UTC()
	}
	return out
}
