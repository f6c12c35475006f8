package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type clubMemberRepository struct {
	db *sql.DB
}

func NewClubMemberRepository(db *sql.DB) repository.ClubMemberRepository {
	return &clubMemberRepository{db: db}
}

func (r *clubMemberRepository) Create(ctx context.Context, m *domain.ClubMember) error {
	logger.DatabaseCall("INSERT", "club_members", "clubID", m.ClubID, "userID", m.UserID, "status", m.Status)
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now().UTC()
	}
	query := `INSERT INTO club_members (club_id, user_id, status, joined_at)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, m.ClubID, m.UserID, m.Status, m.JoinedAt).Scan(&m.ID)
	logger.DatabaseResult("INSERT", 1, err, "memberID", m.ID)
	return translate(err)
}

func (r *clubMemberRepository) GetByID(ctx context.Context, id int32) (*domain.ClubMember, error) {
	m := &domain.ClubMember{}
	query := `SELECT id, club_id, user_id, status, joined_at FROM club_members WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&m.ID, &m.ClubID, &m.UserID, &m.Status, &m.JoinedAt)
	if err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return m, nil
}

func (r *clubMemberRepository) GetActive(ctx context.Context, clubID, userID int32) (*domain.ClubMember, error) {
	m := &domain.ClubMember{}
	query := `SELECT id, club_id, user_id, status, joined_at FROM club_members
	          WHERE club_id = $1 AND user_id = $2 AND status <> 'REMOVED'
	          ORDER BY id DESC LIMIT 1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, clubID, userID).Scan(&m.ID, &m.ClubID, &m.UserID, &m.Status, &m.JoinedAt)
	if err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return m, nil
}

func (r *clubMemberRepository) UpdateStatus(ctx context.Context, id int32, status domain.MemberStatus) error {
	logger.DatabaseCall("UPDATE", "club_members", "memberID", id, "status", status)
	query := `UPDATE club_members SET status = $1 WHERE id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	return requireAffected(res, domain.ErrMemberNotFound)
}

func (r *clubMemberRepository) ListByClub(ctx context.Context, clubID int32, status domain.MemberStatus) ([]domain.ClubMember, error) {
	query := `SELECT m.id, m.club_id, m.user_id, m.status, m.joined_at, u.full_name, u.email,
	                 CASE WHEN c.president_id = m.user_id THEN 'ClubLeader' ELSE 'Member' END
	          FROM club_members m
	          JOIN users u ON u.id = m.user_id
	          JOIN clubs c ON c.id = m.club_id
	          WHERE m.club_id = $1 AND m.status = $2
	          ORDER BY m.joined_at, m.id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, clubID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.ClubMember
	for rows.Next() {
		var m domain.ClubMember
		if err := rows.Scan(&m.ID, &m.ClubID, &m.UserID, &m.Status, &m.JoinedAt, &m.FullName, &m.Email, &m.Role); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *clubMemberRepository) ListApprovedUserIDs(ctx context.Context, clubID int32) ([]int32, error) {
	query := `SELECT user_id FROM club_members WHERE club_id = $1 AND status = 'APPROVED' ORDER BY user_id`
	return scanIDs(conn(ctx, r.db).QueryContext(ctx, query, clubID))
}
