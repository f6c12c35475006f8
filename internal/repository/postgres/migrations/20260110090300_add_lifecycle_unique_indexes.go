package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Index names are matched by the repositories when translating unique violations.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding lifecycle unique indexes...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS ux_clubs_name
					ON clubs (lower(btrim(name)));
				CREATE UNIQUE INDEX IF NOT EXISTS ux_club_members_effective
					ON club_members (club_id, user_id) WHERE status <> 'REMOVED';
				CREATE UNIQUE INDEX IF NOT EXISTS ux_club_join_requests_pending
					ON club_join_requests (club_id, user_id) WHERE status = 'PENDING';
			`); err != nil {
				return fmt.Errorf("failed to add unique indexes: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping lifecycle unique indexes...")

		_, err := db.ExecContext(ctx, `
			DROP INDEX IF EXISTS ux_club_join_requests_pending;
			DROP INDEX IF EXISTS ux_club_members_effective;
			DROP INDEX IF EXISTS ux_clubs_name;
		`)
		return err
	})
}
