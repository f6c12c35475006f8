package domain

import (
	"strings"
	"time"
)

type ClubStatus string

const (
	ClubStatusPending   ClubStatus = "PENDING"
	ClubStatusActive    ClubStatus = "ACTIVE"
	ClubStatusSuspended ClubStatus = "SUSPENDED"
)

type Club struct {
	ID          int32      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      ClubStatus `json:"status"`
	PresidentID *int32     `json:"president_id"`
	CreatedAt   time.Time  `json:"created_at"`

	// Read-model fields, populated by list and detail queries
	PresidentName string   `json:"president_name,omitempty"`
	MemberCount   int32    `json:"member_count"`
	JoinFee       *float64 `json:"join_fee,omitempty"`
}

// IsPresident reports whether userID currently leads the club.
func (c *Club) IsPresident(userID int32) bool {
	return c.PresidentID != nil && *c.PresidentID == userID
}

// NormalizeClubName trims surrounding whitespace; uniqueness is compared case-insensitively on the result.
func NormalizeClubName(name string) string {
	return strings.TrimSpace(name)
}

// ClubFilter narrows ListClubs. A zero value lists every club.
type ClubFilter struct {
	Status *ClubStatus
	// VisibleTo restricts non-admin listings to Active clubs plus the caller's own Pending clubs.
	VisibleTo *int32
}

// MyClub is a club the caller belongs to, with the caller's role in it.
type MyClub struct {
	ClubID   int32  `json:"club_id"`
	ClubName string `json:"club_name"`
	Role     Role   `json:"role"`
}
