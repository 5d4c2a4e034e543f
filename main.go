package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	_ "time/tzdata"

	"github.com/yeremiapane/taplink-saas/config"
	"github.com/yeremiapane/taplink-saas/database"
	"github.com/yeremiapane/taplink-saas/middlewares"
	"github.com/yeremiapane/taplink-saas/router"
	"github.com/yeremiapane/taplink-saas/services"
	"github.com/yeremiapane/taplink-saas/utils"
)

var rootCmd = &cobra.Command{
	Use:           "taplink",
	Short:         "Restaurant taplink and reservation backend",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func main() {
	rootCmd.AddCommand(serveCommand(), migrateCommand(), tenantCommand(), tokenCommand())
	if err := rootCmd.Execute(); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// bootstrap loads the configuration and opens the database.
func bootstrap() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	utils.InitLogger(cfg.LogLevel)

	db, err := config.InitDB(cfg)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.GinMode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}

			if cfg.AutoMigrate {
				if err := database.NewStorage(db).Initialize(); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			locker, err := bookingLocker(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			r := router.SetupRouter(router.Deps{
				DB:       db,
				Config:   cfg,
				Locker:   locker,
				Notifier: services.NewTelegramNotifier(db, cfg.TelegramAPIURL, cfg.NotifyTimeout),
			})

			utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
			return r.Run(":" + cfg.Port)
		},
	}
}

// bookingLocker picks Redis when it is configured so several API instances
// share the per-table locks.
func bookingLocker(ctx context.Context, cfg config.Config) (services.BookingLocker, error) {
	if cfg.RedisAddr == "" {
		utils.InfoLogger.Println("REDIS_ADDR not set, using in-process booking locks")
		return services.NewMemoryLocker(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
	}
	return services.NewRedisLocker(client, cfg.BookingLockTTL), nil
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			return database.NewStorage(db).Initialize()
		},
	}
}

func tenantCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	var name, timezone, currency string
	create := &cobra.Command{
		Use:   "create <slug>",
		Short: "Provision a tenant with its default client page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			if name == "" {
				name = args[0]
			}
			if _, err := time.LoadLocation(timezone); err != nil {
				return fmt.Errorf("unknown timezone %q", timezone)
			}

			tenant, err := services.NewTenantService(db).Create(cmd.Context(), args[0], name, timezone, currency)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tenant %d created: /t/%s\n", tenant.ID, tenant.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "display name (defaults to the slug)")
	create.Flags().StringVar(&timezone, "timezone", "UTC", "IANA timezone of the restaurant")
	create.Flags().StringVar(&currency, "currency", "KZT", "ISO currency code for menu prices")

	cmd.AddCommand(create)
	return cmd
}

// tokenCommand issues an admin token for local use.
func tokenCommand() *cobra.Command {
	var slug, subject, role string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin JWT for a tenant",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch role {
			case middlewares.RoleOwner, middlewares.RoleManager, middlewares.RoleStaff:
			default:
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, db, err := bootstrap()
			if err != nil {
				return err
			}
			tenant, err := services.NewTenantService(db).GetBySlug(cmd.Context(), slug)
			if err != nil {
				return err
			}

			token, err := utils.GenerateToken([]byte(cfg.JWTSecret), tenant.ID, subject, role, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&slug, "tenant", "", "tenant slug")
	cmd.Flags().StringVar(&subject, "subject", "admin", "sub claim")
	cmd.Flags().StringVar(&role, "role", middlewares.RoleOwner, "owner, manager or staff")
	cmd.Flags().DurationVar(&ttl, "expires-in", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}
