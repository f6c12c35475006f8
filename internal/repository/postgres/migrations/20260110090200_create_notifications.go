package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating notifications table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS notifications (
				id         SERIAL PRIMARY KEY,
				user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
				title      VARCHAR(200) NOT NULL,
				message    TEXT NOT NULL,
				is_read    BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			);
			CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at DESC);
		`)
		if err != nil {
			return fmt.Errorf("failed to create notifications table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping notifications table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS notifications;`)
		return err
	})
}
