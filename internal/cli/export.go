package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/wire"
)

// ExportCmd returns the export command
func ExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export sheets to external formats",
	}

	ccfoliaCmd := &cobra.Command{
		Use:   "ccfolia [sheet-id]",
		Short: "Export a sheet as a CCFOLIA character (paste into the CCFOLIA board)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetID, err := parseID(args[0], "sheet_id")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path, _ := cmd.Flags().GetString("file"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return wire.ExportAdapterWithOutput(out).CCFOLIA(commandContext(cmd), sheetID)
		},
	}
	ccfoliaCmd.Flags().StringP("file", "f", "", "Write to a file instead of stdout")

	exportCmd.AddCommand(ccfoliaCmd)
	return exportCmd
}
