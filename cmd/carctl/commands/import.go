package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"carfinder/internal/config"
	"carfinder/internal/repository"
)

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load an inventory file (JSON, CSV or XLSX) into PostgreSQL",
		Long: `Creates the vehicles and query_logs tables if needed and inserts every vehicle
from the file. The connection is taken from DATABASE_URL or the PG_* variables.`,
		Args: cobra.ExactArgs(1),
		// Replaces the root hook: no inventory file needs to be loaded
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initUI(opts.noColor)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicles, err := repository.LoadVehicles(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			repo, err := repository.NewPostgresRepository(cfg.GetPostgreSQLDSN(), cfg.PostgreSQL.MaxConnections, cfg.PostgreSQL.MaxIdleConnections)
			if err != nil {
				return err
			}
			defer repo.Close()

			if err := repo.EnsureSchema(cmd.Context()); err != nil {
				return err
			}

			imported, failures := repo.ImportVehicles(cmd.Context(), vehicles)
			out := cmd.OutOrStdout()
			for _, f := range failures {
				failure.Fprintf(out, "  failed: %s\n", f)
			}
			fmt.Fprintf(out, "Imported %d of %d vehicles\n", imported, len(vehicles))
			if imported == 0 && len(vehicles) > 0 {
				return fmt.Errorf("no vehicles imported")
			}
			return nil
		},
	}
}
