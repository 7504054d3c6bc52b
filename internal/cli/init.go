package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/config"
	"github.com/example/cocsheet/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize cocsheet in the current directory",
		Long: `Write .cocsheet/config.toml in the current directory and create or migrate
the database it points at.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			force, _ := flags.GetBool("force")
			seed, _ := flags.GetBool("seed")

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			if flags.Changed("user") {
				cfg.User, _ = flags.GetString("user")
			}
			if flags.Changed("driver") {
				cfg.DB.Driver, _ = flags.GetString("driver")
			}
			if flags.Changed("db") {
				cfg.DB.Path, _ = flags.GetString("db")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := config.Path(dir)
			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s (use --force to overwrite)\n", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			} else {
				if err := config.Save(dir, cfg); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", path)
			}

			database, err := db.Open(cfg.DB.Driver, cfg.DB.Path)
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Database ready at %s (schema v%d)\n", cfg.DB.Path, db.LatestVersion())

			if seed {
				if err := db.SeedFixtures(database); err != nil {
					return fmt.Errorf("failed to seed fixtures: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded sample sheets owned by %q\n", db.FixtureOwner)
			}

			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), "  cocsheet sheet create \"Harvey Walters\" --occupation detective --roll")
			fmt.Fprintln(cmd.OutOrStdout(), "  cocsheet sheet list")
			return nil
		},
	}

	cmd.Flags().String("user", "", "Actor id used as owner of new sheets")
	cmd.Flags().String("driver", "", "SQLite driver: sqlite3 (cgo) or sqlite (pure Go)")
	cmd.Flags().String("db", "", "Database file path")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	cmd.Flags().Bool("seed", false, "Insert sample sheets for trying things out")
	return cmd
}
