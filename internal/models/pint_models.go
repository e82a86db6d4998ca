package models

import "time"

// Pint is one recorded pour event attributed to a patron and a bartender.
// Rows are immutable once created; the only correction supported is deletion.
type Pint struct {
	ID          string    `json:"id" db:"id"`
	PatronID    string    `json:"patronId" db:"patron_id"`
	BartenderID string    `json:"bartenderId" db:"bartender_id"`
	PouredAt    time.Time `json:"pouredAt" db:"poured_at"`
}

// PintWithNames is a pint row joined with the owning patron's name and the
// pouring bartender's display name (nullable).
type PintWithNames struct {
	Pint
	PatronName           string
	BartenderDisplayName *string
}
