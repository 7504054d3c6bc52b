package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/cli"
	"github.com/example/cocsheet/internal/version"
	"github.com/example/cocsheet/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "cocsheet",
		Short:   "cocsheet - Call of Cthulhu 6th edition character sheets",
		Version: version.String(),
		Long: `cocsheet manages Call of Cthulhu 6th edition investigator sheets: abilities
and derived stats, skill point allocation, sheet versions, session growth
records and CCFOLIA export.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Sheets and their parts
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.SheetCmd())
	rootCmd.AddCommand(cli.SkillCmd())
	rootCmd.AddCommand(cli.VersionCmd())
	rootCmd.AddCommand(cli.GrowthCmd())
	rootCmd.AddCommand(cli.ImageCmd())
	rootCmd.AddCommand(cli.ExportCmd())

	// Dice and formulas
	rootCmd.AddCommand(cli.RollCmd())
	rootCmd.AddCommand(cli.FormulaCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	wire.Close()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
