package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/wire"
)

// RollCmd returns the roll command
func RollCmd() *cobra.Command {
	rollCmd := &cobra.Command{
		Use:   "roll [NdS[+-B]]...",
		Short: "Roll dice",
		Long: `Roll dice in NdS[+-B] notation: 1 to 10 dice of 2 to 100 sides with a
bonus between -50 and 50.

Examples:
  cocsheet roll 1D100
  cocsheet roll 3D6 2D6+6`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter := wire.DiceAdapterWithOutput(cmd.OutOrStdout())
			for _, notation := range args {
				if _, err := adapter.Roll(notation); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rollCmd.AddCommand(&cobra.Command{
		Use:   "abilities",
		Short: "Roll a full set of 6th edition abilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.DiceAdapterWithOutput(cmd.OutOrStdout()).RollAbilities()
			return err
		},
	})

	return rollCmd
}

// FormulaCmd returns the formula command
func FormulaCmd() *cobra.Command {
	formulaCmd := &cobra.Command{
		Use:   "formula [sheet-id] [tag|expression]",
		Short: "Evaluate a named formula or an expression against a sheet",
		Long: `Evaluate a named formula tag (e.g. edu20) or, when the argument is not a
known tag, a custom expression over STR, CON, POW, DEX, APP, SIZ, INT and EDU.

Examples:
  cocsheet formula 1 edu20
  cocsheet formula 1 "(STR + SIZ) / 2"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetID, err := parseID(args[0], "sheet_id")
			if err != nil {
				return err
			}
			tag, expr := formulaArgs(args[1])
			_, err = wire.SheetAdapterWithOutput(cmd.OutOrStdout()).Formula(commandContext(cmd), sheetID, tag, expr)
			return err
		},
	}
	return formulaCmd
}
