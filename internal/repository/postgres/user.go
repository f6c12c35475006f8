package postgres

import (
	"context"
	"database/sql"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, full_name, email, role FROM users WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.FullName, &u.Email, &u.Role)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return u, nil
}

func (r *userRepository) ListAdminIDs(ctx context.Context) ([]int32, error) {
	query := `SELECT id FROM users WHERE role = $1 ORDER BY id`
	return scanIDs(conn(ctx, r.db).QueryContext(ctx, query, domain.RoleAdmin))
}

func scanIDs(rows *sql.Rows, err error) ([]int32, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
