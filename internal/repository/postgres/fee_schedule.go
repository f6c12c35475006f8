package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/huyhqq/Student-Club-Management-System/internal/domain"
	"github.com/huyhqq/Student-Club-Management-System/internal/logger"
	"github.com/huyhqq/Student-Club-Management-System/internal/repository"
)

type feeScheduleRepository struct {
	db *sql.DB
}

func NewFeeScheduleRepository(db *sql.DB) repository.FeeScheduleRepository {
	return &feeScheduleRepository{db: db}
}

// UpsertOneTimeFee updates the club's required one-time fee, creating it when missing.
func (r *feeScheduleRepository) UpsertOneTimeFee(ctx context.Context, clubID int32, amount float64, dueDate time.Time) error {
	logger.DatabaseCall("UPSERT", "fee_schedules", "clubID", clubID, "amount", amount)
	db := conn(ctx, r.db)

	update := `UPDATE fee_schedules SET amount = $1
	           WHERE club_id = $2 AND frequency = $3 AND is_required_fee`
	res, err := db.ExecContext(ctx, update, amount, clubID, domain.FeeFrequencyOneTime)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil || n > 0 {
		return err
	}

	insert := `INSERT INTO fee_schedules (club_id, fee_name, amount, due_date, frequency, status, is_required_fee, created_at)
	           VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`
	_, err = db.ExecContext(ctx, insert, clubID, domain.JoinFeeName, amount, dueDate,
		domain.FeeFrequencyOneTime, domain.FeeStatusActive, time.Now().UTC())
	logger.DatabaseResult("INSERT", 1, err, "clubID", clubID)
	return err
}

func (r *feeScheduleRepository) RemoveOneTimeFee(ctx context.Context, clubID int32) error {
	logger.DatabaseCall("DELETE", "fee_schedules", "clubID", clubID)
	query := `DELETE FROM fee_schedules WHERE club_id = $1 AND frequency = $2 AND is_required_fee`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, clubID, domain.FeeFrequencyOneTime)
	return err
}
