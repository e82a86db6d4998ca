package models

import "time"

// Patron represents a tracked customer accumulating pours toward loyalty totals.
// TotalPints is a denormalized counter kept in step with the pints table; the
// authoritative value is the count of pint rows referencing the patron.
type Patron struct {
	ID                     string     `json:"id" db:"id"`
	Name                   string     `json:"name" db:"name" binding:"required"`
	Email                  *string    `json:"email,omitempty" db:"email"`
	Birthday               *time.Time `json:"birthday,omitempty" db:"birthday"`
	JoinedAt               time.Time  `json:"joinedAt" db:"joined_at"`
	LoyaltyProgramJoinedAt time.Time  `json:"loyaltyProgramJoinedAt" db:"loyalty_program_joined_at"`
	TotalPints             int        `json:"totalPints" db:"total_pints"`
	AvatarURL              *string    `json:"avatarUrl,omitempty" db:"avatar_url"`
}

// PatronTotalsDrift reports a patron whose denormalized counter disagrees with
// the audit trail. Produced by the reconciliation query.
type PatronTotalsDrift struct {
	PatronID    string
	TotalPints  int
	ActualCount int
}
