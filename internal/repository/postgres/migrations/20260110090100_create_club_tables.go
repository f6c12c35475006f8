package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating club tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			stmts := []string{
				`CREATE TABLE IF NOT EXISTS clubs (
					id           SERIAL PRIMARY KEY,
					name         VARCHAR(100) NOT NULL,
					description  TEXT NOT NULL DEFAULT '',
					status       VARCHAR(16) NOT NULL DEFAULT 'PENDING'
					             CHECK (status IN ('PENDING', 'ACTIVE', 'SUSPENDED')),
					president_id INTEGER REFERENCES users(id) ON DELETE RESTRICT,
					created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE IF NOT EXISTS club_members (
					id        SERIAL PRIMARY KEY,
					club_id   INTEGER NOT NULL REFERENCES clubs(id) ON DELETE RESTRICT,
					user_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
					status    VARCHAR(16) NOT NULL
					          CHECK (status IN ('PENDING', 'APPROVED', 'REMOVED')),
					joined_at TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE TABLE IF NOT EXISTS club_join_requests (
					id            SERIAL PRIMARY KEY,
					club_id       INTEGER NOT NULL REFERENCES clubs(id) ON DELETE RESTRICT,
					user_id       INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
					student_id    VARCHAR(8) NOT NULL,
					major         VARCHAR(200) NOT NULL,
					academic_year VARCHAR(9) NOT NULL,
					introduction  VARCHAR(1000) NOT NULL,
					reason        VARCHAR(1000) NOT NULL,
					contact_info  VARCHAR(200),
					status        VARCHAR(16) NOT NULL
					              CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
					created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
					approved_at   TIMESTAMPTZ
				)`,
				`CREATE TABLE IF NOT EXISTS fee_schedules (
					id              SERIAL PRIMARY KEY,
					club_id         INTEGER NOT NULL REFERENCES clubs(id) ON DELETE RESTRICT,
					fee_name        VARCHAR(200) NOT NULL,
					amount          NUMERIC(12, 2) NOT NULL CHECK (amount >= 0),
					due_date        TIMESTAMPTZ NOT NULL,
					frequency       VARCHAR(16) NOT NULL,
					status          VARCHAR(16) NOT NULL,
					is_required_fee BOOLEAN NOT NULL DEFAULT FALSE,
					created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
				)`,
				`CREATE INDEX IF NOT EXISTS idx_club_members_club_id ON club_members(club_id)`,
				`CREATE INDEX IF NOT EXISTS idx_club_members_user_id ON club_members(user_id)`,
				`CREATE INDEX IF NOT EXISTS idx_club_join_requests_club_id ON club_join_requests(club_id)`,
				`CREATE INDEX IF NOT EXISTS idx_fee_schedules_club_id ON fee_schedules(club_id)`,
			}
			for _, stmt := range stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create club tables: %w", err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping club tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS fee_schedules;
			DROP TABLE IF EXISTS club_join_requests;
			DROP TABLE IF EXISTS club_members;
			DROP TABLE IF EXISTS clubs;
		`)
		return err
	})
}
