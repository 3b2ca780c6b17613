package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/tablebook/internal/auth"
	"github.com/example/tablebook/internal/booking"
	"github.com/example/tablebook/internal/cache"
	"github.com/example/tablebook/internal/config"
	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/migrate"
	"github.com/example/tablebook/internal/store"
	"github.com/example/tablebook/internal/tracing"
	"github.com/example/tablebook/internal/web"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the reservation API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			rules, err := cfg.Rules()
			if err != nil {
				return err
			}

			eng := booking.New(store.NewTableRepo(d), store.NewBookingRepo(d), rules)

			if cfg.RedisAddr != "" {
				rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
				if err := rdb.Ping(ctx).Err(); err != nil {
					log.Printf("redis ping failed (%s), availability cache disabled: %v", cfg.RedisAddr, err)
				} else {
					eng.Cache = cache.New(rdb)
					log.Printf("availability cache: redis at %s", cfg.RedisAddr)
				}
			}

			hashKey, blockKey, err := cfg.CookieKeys()
			if err != nil {
				return err
			}
			authStore := auth.NewStore(d, hashKey, blockKey, []byte(cfg.JWTSecret), cfg.TokenTTL())

			if shutdown := tracing.Init("tablebook", cfg.OTLPEndpoint); shutdown != nil {
				defer shutdown()
			}

			ws := &web.Server{Auth: authStore, Engine: eng}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes())
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
