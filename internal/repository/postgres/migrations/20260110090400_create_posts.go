package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating posts table...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS posts (
				id         SERIAL PRIMARY KEY,
				user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
				club_id    INTEGER REFERENCES clubs(id) ON DELETE RESTRICT,
				content    TEXT NOT NULL DEFAULT '',
				visibility VARCHAR(20) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ,
				CONSTRAINT ck_posts_visibility CHECK (visibility IN ('Public', 'Members')),
				CONSTRAINT ck_posts_members_club CHECK (visibility <> 'Members' OR club_id IS NOT NULL)
			);
			CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC);
			CREATE INDEX IF NOT EXISTS idx_posts_club ON posts(club_id) WHERE club_id IS NOT NULL;
		`)
		if err != nil {
			return fmt.Errorf("failed to create posts table: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping posts table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS posts;`)
		return err
	})
}
