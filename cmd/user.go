package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/example/tablebook/internal/auth"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/migrate"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var name, email, password, phone string

	c := &cobra.Command{
		Use:   "add",
		Short: "Add a user (name/email/password/phone)",
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

			hashKey, blockKey, err := cfg.CookieKeys()
			if err != nil {
				return err
			}
			store := auth.NewStore(d, hashKey, blockKey, []byte(cfg.JWTSecret), cfg.TokenTTL())
			u, err := store.Register(ctx, name, email, password, phone)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "created user %q (%s)\n", u.Email, u.ID)
			return nil
		},
	}

	c.Flags().StringVar(&name, "name", "", "display name")
	c.Flags().StringVar(&email, "email", "", "email address")
	c.Flags().StringVar(&password, "password", "", "password")
	c.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = c.MarkFlagRequired("name")
	_ = c.MarkFlagRequired("email")
	_ = c.MarkFlagRequired("password")
	return c
}
