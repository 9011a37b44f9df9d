package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"campus-coffee/internal/config"
	"campus-coffee/internal/repository/sqlite"
)

var dbInitCmd = &cobra.Command{
	Use:   "db-init",
	Short: "Create the database schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()

		if err := sqlite.NewUserRepository(db).Init(cmd.Context()); err != nil {
			return fmt.Errorf("init user repository: %w", err)
		}
		logger.Infof("schema ready at %s", cfg.Database.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbInitCmd)
}
