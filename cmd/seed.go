package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/migrate"
	"github.com/example/tablebook/internal/store"
	"github.com/spf13/cobra"
)

// The reference floor plan: seven two-tops, six three-tops, three
// six-tops.
var floorPlan = []booking.Table{
	{Number: 1, Capacity: 2}, {Number: 2, Capacity: 2}, {Number: 3, Capacity: 2},
	{Number: 4, Capacity: 2}, {Number: 5, Capacity: 2}, {Number: 6, Capacity: 2},
	{Number: 7, Capacity: 2},
	{Number: 8, Capacity: 3}, {Number: 9, Capacity: 3}, {Number: 10, Capacity: 3},
	{Number: 11, Capacity: 3}, {Number: 12, Capacity: 3}, {Number: 13, Capacity: 3},
	{Number: 14, Capacity: 6}, {Number: 15, Capacity: 6}, {Number: 16, Capacity: 6},
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Provision the table floor plan (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := migrate.Up(ctx, d); err != nil {
				return err
			}

			tables := store.NewTableRepo(d)
			for _, t := range floorPlan {
				if err := tables.Upsert(ctx, t); err != nil {
					return fmt.Errorf("seed table %d: %w", t.Number, err)
				}
			}
			fmt.Fprintf(os.Stdout, "seeded %d tables\n", len(floorPlan))
			return nil
		},
	}
}
