package cmd

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/Prince5598/Cloud-Storage/database"
	"github.com/Prince5598/Cloud-Storage/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger.Setup(cfg.Log)
			if err := openDatabase(cfg); err != nil {
				return err
			}
			log.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")
			return nil
		},
	}
}

func newEmptyTrashCmd() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "empty-trash",
		Short: "Permanently delete everything in a user's trash",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if owner == "" {
				return errors.New("--owner is required")
			}
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRedis()

			out, err := a.services.Lifecycle.EmptyTrash(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return printJSON(out)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner id whose trash is emptied")
	return cmd
}

func newRetryOrphansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retry-orphans",
		Short: "Run one pass over blobs whose deletion failed earlier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRedis()

			report, err := a.services.Cleanup.RetryOrphans(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func closeRedis() {
	if database.RedisClient != nil {
		_ = database.RedisClient.Close()
	}
}
