package domain

import "time"

type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "PENDING"
	MemberStatusApproved MemberStatus = "APPROVED"
	MemberStatusRemoved  MemberStatus = "REMOVED"
)

// ClubMember rows are never deleted; leaving or removal marks them REMOVED.
type ClubMember struct {
	ID       int32        `json:"id"`
	ClubID   int32        `json:"club_id"`
	UserID   int32        `json:"user_id"`
	Status   MemberStatus `json:"status"`
	JoinedAt time.Time    `json:"joined_at"`

	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role,omitempty"`
}

func (m *ClubMember) IsApproved() bool {
	return m.Status == MemberStatusApproved
}
