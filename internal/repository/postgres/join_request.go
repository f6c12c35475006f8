package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type joinRequestRepository struct {
	db *sql.DB
}

func NewJoinRequestRepository(db *sql.DB) repository.JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

const joinRequestColumns = `r.id, r.club_id, r.user_id, r.student_id, r.major, r.academic_year,
	r.introduction, r.reason, r.contact_info, r.status, r.created_at, r.approved_at`

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	logger.DatabaseCall("INSERT", "club_join_requests", "clubID", req.ClubID, "userID", req.UserID)
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO club_join_requests
	          (club_id, user_id, student_id, major, academic_year, introduction, reason, contact_info, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	err := conn(ctx, r.db).QueryRowContext(ctx, query,
		req.ClubID, req.UserID, req.StudentID, req.Major, req.AcademicYear,
		req.Introduction, req.Reason, req.ContactInfo, req.Status, req.CreatedAt,
	).Scan(&req.ID)
	logger.DatabaseResult("INSERT", 1, err, "requestID", req.ID)
	return translate(err)
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id int32) (*domain.JoinRequest, error) {
	query := `SELECT ` + joinRequestColumns + `, '' FROM club_join_requests r WHERE r.id = $1`
	req, err := scanJoinRequest(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrJoinRequestNotFound)
	}
	return req, nil
}

func (r *joinRequestRepository) GetPending(ctx context.Context, clubID, userID int32) (*domain.JoinRequest, error) {
	query := `SELECT ` + joinRequestColumns + `, '' FROM club_join_requests r
	          WHERE r.club_id = $1 AND r.user_id = $2 AND r.status = 'PENDING'`
	req, err := scanJoinRequest(conn(ctx, r.db).QueryRowContext(ctx, query, clubID, userID))
	if err != nil {
		return nil, notFound(err, domain.ErrJoinRequestNotFound)
	}
	return req, nil
}

func (r *joinRequestRepository) UpdateStatus(ctx context.Context, id int32, status domain.JoinRequestStatus, approvedAt *time.Time) error {
	logger.DatabaseCall("UPDATE", "club_join_requests", "requestID", id, "status", status)
	query := `UPDATE club_join_requests SET status = $1, approved_at = $2 WHERE id = $3 AND status = 'PENDING'`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, status, approvedAt, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return requireAffected(res, domain.ErrRequestAlreadyProcessed)
}

func (r *joinRequestRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "club_join_requests", "requestID", id)
	query := `DELETE FROM club_join_requests WHERE id = $1 AND status = 'PENDING'`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrJoinRequestNotFound)
}

func (r *joinRequestRepository) ListByClub(ctx context.Context, clubID int32, status *domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(goqu.T("club_join_requests").As("r")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("r.user_id")))).
		Select(
			goqu.I("r.id"), goqu.I("r.club_id"), goqu.I("r.user_id"), goqu.I("r.student_id"),
			goqu.I("r.major"), goqu.I("r.academic_year"), goqu.I("r.introduction"), goqu.I("r.reason"),
			goqu.I("r.contact_info"), goqu.I("r.status"), goqu.I("r.created_at"), goqu.I("r.approved_at"),
			goqu.I("u.full_name"),
		).
		Where(goqu.I("r.club_id").Eq(clubID)).
		Order(goqu.I("r.created_at").Desc(), goqu.I("r.id").Desc())
	if status != nil {
		ds = ds.Where(goqu.I("r.status").Eq(string(*status)))
	}

	query, _, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building join request list query: %w", err)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.JoinRequest
	for rows.Next() {
		req, err := scanJoinRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *joinRequestRepository) ListStale(ctx context.Context, olderThan time.Time) ([]domain.StaleJoinRequests, error) {
	query := `SELECT c.id, c.name, c.president_id, count(*)
	          FROM club_join_requests r JOIN clubs c ON c.id = r.club_id
	          WHERE r.status = 'PENDING' AND r.created_at < $1 AND c.president_id IS NOT NULL
	          GROUP BY c.id, c.name, c.president_id
	          ORDER BY c.id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stale []domain.StaleJoinRequests
	for rows.Next() {
		var s domain.StaleJoinRequests
		if err := rows.Scan(&s.ClubID, &s.ClubName, &s.PresidentID, &s.Count); err != nil {
			return nil, err
		}
		stale = append(stale, s)
	}
	return stale, rows.Err()
}

func scanJoinRequest(row rowScanner) (*domain.JoinRequest, error) {
	req := &domain.JoinRequest{}
	var contact sql.NullString
	var approvedAt sql.NullTime
	err := row.Scan(&req.ID, &req.ClubID, &req.UserID, &req.StudentID, &req.Major, &req.AcademicYear,
		&req.Introduction, &req.Reason, &contact, &req.Status, &req.CreatedAt, &approvedAt, &req.FullName)
	if err != nil {
		return nil, err
	}
	if contact.Valid {
		req.ContactInfo = &contact.String
	}
	if approvedAt.Valid {
		t := approvedAt.Time
		req.ApprovedAt = &t
	}
	return req, nil
}
