package domain

import "time"

type JoinRequestStatus string

const (
	JoinRequestStatusPending  JoinRequestStatus = "PENDING"
	JoinRequestStatusApproved JoinRequestStatus = "APPROVED"
	JoinRequestStatusRejected JoinRequestStatus = "REJECTED"
)

// ApplicantProfile is what a prospective member fills in when applying.
type ApplicantProfile struct {
	StudentID    string  `json:"student_id"`
	Major        string  `json:"major"`
	AcademicYear string  `json:"academic_year"`
	Introduction string  `json:"introduction"`
	Reason       string  `json:"reason"`
	ContactInfo  *string `json:"contact_info,omitempty"`
}

type JoinRequest struct {
	ID     int32 `json:"id"`
	ClubID int32 `json:"club_id"`
	UserID int32 `json:"user_id"`
	ApplicantProfile
	Status     JoinRequestStatus `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
	ApprovedAt *time.Time        `json:"approved_at,omitempty"`

	FullName string `json:"full_name,omitempty"`
}

func (r *JoinRequest) IsPending() bool {
	return r.Status == JoinRequestStatusPending
}

// StaleJoinRequests groups requests that have waited too long, per club.
type StaleJoinRequests struct {
	ClubID      int32
	ClubName    string
	PresidentID int32
	Count       int32
}
