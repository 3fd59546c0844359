// Package criteria implements the read contract for criteria sets: the
// ordered, weighted lists of compliance questions an evaluation is scored
// against. Authoring criteria sets is an admin concern owned elsewhere; the
// pipeline only ever reads them.
package criteria

import (
	"time"

	"github.com/google/uuid"
)

// Set is a named, ordered collection of weighted criterion items.
type Set struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is one compliance question within a set. Weight scales the item's
// contribution to the aggregate score; Type selects the prompt template.
type Item struct {
	ID       uuid.UUID `json:"id"`
	SetID    uuid.UUID `json:"set_id"`
	Position int       `json:"position"`
	Weight   float64   `json:"weight"`
	Text     string    `json:"text"`
	Type     string    `json:"type"`
}
