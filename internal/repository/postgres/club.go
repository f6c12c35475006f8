package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

const dialectPostgres = "postgres"

// Read-model columns shared by the detail and list queries.
const (
	memberCountExpr = `(SELECT count(*) FROM club_members m WHERE m.club_id = c.id AND m.status = 'APPROVED')`
	joinFeeExpr     = `(SELECT f.amount FROM fee_schedules f WHERE f.club_id = c.id AND f.frequency = 'ONE_TIME' AND f.is_required_fee AND f.status = 'ACTIVE' ORDER BY f.id DESC LIMIT 1)`
)

type clubRepository struct {
	db *sql.DB
}

func NewClubRepository(db *sql.DB) repository.ClubRepository {
	return &clubRepository{db: db}
}

func (r *clubRepository) Create(ctx context.Context, c *domain.Club) error {
	logger.DatabaseCall("INSERT", "clubs", "name", c.Name)
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO clubs (name, description, status, president_id, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, c.Name, c.Description, c.Status, c.PresidentID, c.CreatedAt).Scan(&c.ID)
	logger.DatabaseResult("INSERT", 1, err, "clubID", c.ID)
	return translate(err)
}

func (r *clubRepository) GetByID(ctx context.Context, id int32) (*domain.Club, error) {
	query := `SELECT c.id, c.name, c.description, c.status, c.president_id, c.created_at,
	                 COALESCE(u.full_name, ''), ` + memberCountExpr + `, ` + joinFeeExpr + `
	          FROM clubs c LEFT JOIN users u ON u.id = c.president_id
	          WHERE c.id = $1`
	c, err := scanClub(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrClubNotFound)
	}
	return c, nil
}

func (r *clubRepository) Update(ctx context.Context, c *domain.Club) error {
	query := `UPDATE clubs SET name = $1, description = $2 WHERE id = $3`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, c.Name, c.Description, c.ID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res, domain.ErrClubNotFound)
}

func (r *clubRepository) UpdateStatus(ctx context.Context, id int32, status domain.ClubStatus) error {
	logger.DatabaseCall("UPDATE", "clubs", "clubID", id, "status", status)
	query := `UPDATE clubs SET status = $1 WHERE id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, status, id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return err
	}
	return requireAffected(res, domain.ErrClubNotFound)
}

func (r *clubRepository) NameTaken(ctx context.Context, name string, excludeID int32) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM clubs WHERE lower(btrim(name)) = lower(btrim($1)) AND id <> $2)`
	var taken bool
	err := conn(ctx, r.db).QueryRowContext(ctx, query, name, excludeID).Scan(&taken)
	return taken, err
}

func (r *clubRepository) List(ctx context.Context, filter domain.ClubFilter) ([]domain.Club, error) {
	ds := goqu.Dialect(dialectPostgres).
		From(goqu.T("clubs").As("c")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("c.president_id")))).
		Select(
			goqu.I("c.id"), goqu.I("c.name"), goqu.I("c.description"), goqu.I("c.status"),
			goqu.I("c.president_id"), goqu.I("c.created_at"),
			goqu.COALESCE(goqu.I("u.full_name"), ""),
			goqu.L(memberCountExpr),
			goqu.L(joinFeeExpr),
		).
		Order(goqu.I("c.created_at").Desc(), goqu.I("c.id").Desc())

	if filter.Status != nil {
		ds = ds.Where(goqu.I("c.status").Eq(string(*filter.Status)))
	}
	if filter.VisibleTo != nil {
		ds = ds.Where(goqu.Or(
			goqu.I("c.status").Eq(string(domain.ClubStatusActive)),
			goqu.And(
				goqu.I("c.status").Eq(string(domain.ClubStatusPending)),
				goqu.I("c.president_id").Eq(*filter.VisibleTo),
			),
		))
	}

	query, _, err := ds.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building club list query: %w", err)
	}

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []domain.Club
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		clubs = append(clubs, *c)
	}
	return clubs, rows.Err()
}

func (r *clubRepository) ListByMember(ctx context.Context, userID int32) ([]domain.MyClub, error) {
	query := `SELECT c.id, c.name, COALESCE(c.president_id = $1, FALSE)
	          FROM club_members m JOIN clubs c ON c.id = m.club_id
	          WHERE m.user_id = $1 AND m.status = 'APPROVED'
	          ORDER BY c.name`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []domain.MyClub
	for rows.Next() {
		var mc domain.MyClub
		var isPresident bool
		if err := rows.Scan(&mc.ClubID, &mc.ClubName, &isPresident); err != nil {
			return nil, err
		}
		mc.Role = domain.RoleMember
		if isPresident {
			mc.Role = domain.RoleClubLeader
		}
		clubs = append(clubs, mc)
	}
	return clubs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClub(row rowScanner) (*domain.Club, error) {
	c := &domain.Club{}
	var presidentID sql.NullInt32
	var joinFee sql.NullFloat64
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Status, &presidentID, &c.CreatedAt,
		&c.PresidentName, &c.MemberCount, &joinFee)
	if err != nil {
		return nil, err
	}
	if presidentID.Valid {
		c.PresidentID = &presidentID.Int32
	}
	if joinFee.Valid {
		c.JoinFee = &joinFee.Float64
	}
	return c, nil
}
