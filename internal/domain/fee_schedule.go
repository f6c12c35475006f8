package domain

import "time"

type FeeFrequency string

const (
	FeeFrequencyOneTime FeeFrequency = "ONE_TIME"
)

const (
	JoinFeeName     = "Club membership fee"
	JoinFeeDueIn    = 30 * 24 * time.Hour
	FeeStatusActive = "ACTIVE"
)

// FeeSchedule is the one-time required join fee attached to a club.
type FeeSchedule struct {
	ID            int32        `json:"id"`
	ClubID        int32        `json:"club_id"`
	FeeName       string       `json:"fee_name"`
	Amount        float64      `json:"amount"`
	DueDate       time.Time    `json:"due_date"`
	Frequency     FeeFrequency `json:"frequency"`
	Status        string       `json:"status"`
	IsRequiredFee bool         `json:"is_required_fee"`
	CreatedAt     time.Time    `json:"created_at"`
}
