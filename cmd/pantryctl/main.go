// Command pantryctl runs one-off maintenance tasks against the pantry
// database.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/pantry-helper/internal/config"
	"github.com/mamadbah2/pantry-helper/internal/domain/models"
	"github.com/mamadbah2/pantry-helper/internal/repository/mysql"
	"github.com/mamadbah2/pantry-helper/internal/service/pantries"
	"github.com/mamadbah2/pantry-helper/internal/service/profiles"
	"github.com/mamadbah2/pantry-helper/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "pantryctl",
		Short:         "Pantry Helper maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Optional .env file to load")

	cmd.AddCommand(migrateCmd(&envFile), seedPantryCmd(&envFile))
	return cmd
}

func migrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), *envFile, func(ctx context.Context, store *mysql.Store, log *zap.Logger) error {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				log.Info("migration complete")
				return nil
			})
		},
	}
}

type seedOptions struct {
	Name          string
	AccessCode    string
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

func seedPantryCmd(envFile *string) *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed-pantry",
		Short: "Create a pantry with its first admin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd.Context(), *envFile, func(ctx context.Context, store *mysql.Store, log *zap.Logger) error {
				if err := store.Migrate(ctx); err != nil {
					return err
				}
				pantry, admin, err := seedPantry(ctx, store, opts)
				if err != nil {
					return err
				}
				log.Info("pantry seeded",
					zap.Int64("pantry_id", pantry.ID),
					zap.String("pantry_name", pantry.Name),
					zap.Int64("admin_profile_id", admin.ID))
				fmt.Fprintf(cmd.OutOrStdout(), "pantry %d created, admin profile %d\n", pantry.ID, admin.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Pantry name")
	cmd.Flags().StringVar(&opts.AccessCode, "access-code", "", "Code staff use to join the pantry")
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", "", "Email of the first admin")
	cmd.Flags().StringVar(&opts.AdminName, "admin-name", "", "Display name of the first admin")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", "", "Sign-in password of the first admin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("access-code")
	_ = cmd.MarkFlagRequired("admin-email")
	_ = cmd.MarkFlagRequired("admin-password")
	return cmd
}

func seedPantry(ctx context.Context, store *mysql.Store, opts seedOptions) (models.Pantry, models.Profile, error) {
	name := strings.TrimSpace(opts.Name)
	email := strings.ToLower(strings.TrimSpace(opts.AdminEmail))
	if name == "" || email == "" || opts.AccessCode == "" || len(opts.AdminPassword) < 8 {
		return models.Pantry{}, models.Profile{}, fmt.Errorf("name, access code, admin email and an admin password of at least 8 characters are required")
	}

	hash, err := pantries.HashAccessCode(opts.AccessCode)
	if err != nil {
		return models.Pantry{}, models.Profile{}, err
	}

	passwordHash, err := profiles.HashPassword(opts.AdminPassword)
	if err != nil {
		return models.Pantry{}, models.Profile{}, err
	}

	admin, _, err := store.UpsertProfileByEmail(ctx, models.SignInInput{Name: opts.AdminName, Email: email, PasswordHash: passwordHash})
	if err != nil {
		return models.Pantry{}, models.Profile{}, err
	}

	pantry := models.Pantry{Name: name, AccessCodeHash: hash}
	if err := store.CreatePantry(ctx, &pantry, admin.ID); err != nil {
		return models.Pantry{}, models.Profile{}, err
	}
	return pantry, admin, nil
}

func withStore(parent context.Context, envFile string, fn func(context.Context, *mysql.Store, *zap.Logger) error) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	log := logger.Must(logger.New())
	defer func() { _ = log.Sync() }()

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
	defer cancel()

	store, err := mysql.Open(ctx, cfg.Database, log.Named("repo.mysql"))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return fn(ctx, store, log)
}
