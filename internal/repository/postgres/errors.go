package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

// Unique indexes created by the migrations.
const (
	uxClubsName               = "ux_clubs_name"
	uxClubMembersEffective    = "ux_club_members_effective"
	uxClubJoinRequestsPending = "ux_club_join_requests_pending"
)

// translate turns unique violations on known indexes into conflict errors.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}
	switch pqErr.Constraint {
	case uxClubsName:
		return domain.ErrDuplicateName
	case uxClubMembersEffective:
		return domain.ErrAlreadyMember
	case uxClubJoinRequestsPending:
		return domain.ErrDuplicateRequest
	default:
		return err
	}
}

// notFound maps sql.ErrNoRows to sentinel.
func notFound(err error, sentinel error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel
	}
	return err
}

func requireAffected(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel
	}
	return nil
}
