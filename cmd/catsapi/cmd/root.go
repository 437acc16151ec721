package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whiskerworks/cats-api/internal/infrastructure/config"
	"github.com/whiskerworks/cats-api/pkg/logger"
)

var (
	cfg     *config.Config
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "catsapi",
	Short: "Cats API server",
	Long: `catsapi serves the users and cats REST API backed by MongoDB,
with an optional Redis cache in front of user lookups.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cmd.Context(), envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logger.Init(logger.Options{
			Level:   cfg.LogLevel,
			Pretty:  cfg.IsDevelopment(),
			Service: "cats-api",
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file read before the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(indexesCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
