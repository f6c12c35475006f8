package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// users belongs to the identity service; it is created here only when missing so the
// club tables can reference it.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS users (
				id         SERIAL PRIMARY KEY,
				full_name  VARCHAR(200) NOT NULL,
				email      VARCHAR(255) NOT NULL UNIQUE,
				role       VARCHAR(32)  NOT NULL DEFAULT 'Student',
				created_at TIMESTAMPTZ  NOT NULL DEFAULT now()
			);
		`)
		if err != nil {
			return fmt.Errorf("failed to create users table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping users table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS users;`)
		return err
	})
}
