package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mongodb "github.com/whiskerworks/cats-api/internal/infrastructure/db/mongo"
	"github.com/whiskerworks/cats-api/pkg/logger"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, closeDB, err := openMongo(cmd.Context())
		if err != nil {
			return err
		}
		defer closeDB()

		if err := mongodb.EnsureIndexes(cmd.Context(), db); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		log := logger.Component("indexes")
		log.Info().Str("database", cfg.Mongo.Database).Msg("indexes ensured")
		return nil
	},
}
