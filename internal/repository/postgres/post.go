package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

const postColumns = `p.id, p.user_id, p.club_id, p.content, p.visibility, p.created_at, p.updated_at,
	COALESCE(u.full_name, ''), c.name, c.status`

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, p *domain.Post) error {
	logger.DatabaseCall("INSERT", "posts", "userID", p.UserID, "visibility", p.Visibility)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO posts (user_id, club_id, content, visibility, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, p.UserID, p.ClubID, p.Content, p.Visibility, p.CreatedAt).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "postID", p.ID)
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id int32) (*domain.Post, error) {
	query := `SELECT ` + postColumns + `
	          FROM posts p
	          LEFT JOIN users u ON u.id = p.user_id
	          LEFT JOIN clubs c ON c.id = p.club_id
	          WHERE p.id = $1`
	p, err := scanPost(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, domain.ErrPostNotFound)
	}
	return p, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id int32, content string, updatedAt time.Time) error {
	query := `UPDATE posts SET content = $1, updated_at = $2 WHERE id = $3`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, content, updatedAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res, domain.ErrPostNotFound)
}

func (r *postRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "posts", "postID", id)
	res, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return err
	}
	return requireAffected(res, domain.ErrPostNotFound)
}

func (r *postRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, int32, error) {
	base := goqu.Dialect(dialectPostgres).
		From(goqu.T("posts").As("p")).
		LeftJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("p.user_id")))).
		LeftJoin(goqu.T("clubs").As("c"), goqu.On(goqu.I("c.id").Eq(goqu.I("p.club_id")))).
		Where(postFilterExpressions(filter)...)

	countQuery, _, err := base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("building post count query: %w", err)
	}

	page := base.
		Select(goqu.L(postColumns)).
		Order(postOrder(filter.Sort)...)
	if filter.Limit > 0 {
		page = page.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		page = page.Offset(uint(filter.Offset))
	}
	query, _, err := page.ToSQL()
	if err != nil {
		return nil, 0, fmt.Errorf("building post list query: %w", err)
	}

	db := conn(ctx, r.db)

	var total int32
	if err := db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

func postFilterExpressions(f domain.PostFilter) []exp.Expression {
	var where []exp.Expression

	switch f.Audience {
	case domain.PostAudiencePublic:
		where = append(where,
			goqu.I("p.visibility").Eq(string(domain.PostVisibilityPublic)),
			goqu.Or(
				goqu.I("p.club_id").IsNull(),
				goqu.I("c.status").Eq(string(domain.ClubStatusActive)),
			),
		)
	case domain.PostAudienceViewer:
		where = append(where, goqu.Or(
			goqu.I("p.user_id").Eq(f.ViewerID),
			goqu.I("p.visibility").Eq(string(domain.PostVisibilityPublic)),
			goqu.And(
				goqu.I("p.visibility").Eq(string(domain.PostVisibilityMembers)),
				goqu.L(`EXISTS (SELECT 1 FROM club_members m WHERE m.club_id = p.club_id AND m.user_id = ? AND m.status = 'APPROVED')`, f.ViewerID),
			),
		))
	}

	if f.ClubID != nil {
		where = append(where, goqu.I("p.club_id").Eq(*f.ClubID))
	}
	if f.Visibility != nil {
		where = append(where, goqu.I("p.visibility").Eq(string(*f.Visibility)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, goqu.I("p.content").ILike("%"+escapeLike(s)+"%"))
	}
	return where
}

func postOrder(sort domain.PostSort) []exp.OrderedExpression {
	clubName := goqu.COALESCE(goqu.I("c.name"), "")
	switch sort {
	case domain.PostSortClubNameAsc:
		return []exp.OrderedExpression{clubName.Asc(), goqu.I("p.created_at").Desc(), goqu.I("p.id").Desc()}
	case domain.PostSortClubNameDesc:
		return []exp.OrderedExpression{clubName.Desc(), goqu.I("p.created_at").Desc(), goqu.I("p.id").Desc()}
	default:
		return []exp.OrderedExpression{goqu.I("p.created_at").Desc(), goqu.I("p.id").Desc()}
	}
}

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanPost(row rowScanner) (*domain.Post, error) {
	p := &domain.Post{}
	var (
		clubID     sql.NullInt32
		updatedAt  sql.NullTime
		clubName   sql.NullString
		clubStatus sql.NullString
	)
	err := row.Scan(&p.ID, &p.UserID, &clubID, &p.Content, &p.Visibility, &p.CreatedAt, &updatedAt,
		&p.AuthorName, &clubName, &clubStatus)
	if err != nil {
		return nil, err
	}
	if clubID.Valid {
		p.ClubID = &clubID.Int32
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}
	if clubName.Valid {
		p.ClubName = &clubName.String
	}
	if clubStatus.Valid {
		p.ClubStatus = domain.ClubStatus(clubStatus.String)
	}
	return p, nil
}
