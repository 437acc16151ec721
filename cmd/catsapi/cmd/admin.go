package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whiskerworks/cats-api/internal/core/ports"
	"github.com/whiskerworks/cats-api/internal/core/service"
	mongodb "github.com/whiskerworks/cats-api/internal/infrastructure/db/mongo"
	"github.com/whiskerworks/cats-api/pkg/logger"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an account with the admin role",
	Long: `create-admin stores an admin account directly. Registration over HTTP
always creates plain users, so this is the only way to obtain an admin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" || adminPassword == "" || adminName == "" {
			return fmt.Errorf("--name, --email and --password are required")
		}

		db, closeDB, err := openMongo(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		if err := mongodb.EnsureIndexes(cmd.Context(), db); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		users := service.NewUserService(
			mongodb.NewUserRepository(db),
			mongodb.NewCatRepository(db),
			nil,
			service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			logger.Component("users"),
		)

		admin, err := users.CreateAdmin(cmd.Context(), ports.RegisterInput{
			UserName: adminName,
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "admin %s created with id %s\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "User name of the admin")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email used to log in")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (at least 8 characters)")
}
