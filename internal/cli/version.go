package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/wire"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Manage a sheet's version tree",
	Long: `Every sheet belongs to a version tree. New versions and rollbacks attach to
the root of the tree and take the next free version number.`,
}

var versionCreateCmd = &cobra.Command{
	Use:   "create [sheet-id]",
	Short: "Create a new version copied from a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		req := primary.CreateVersionRequest{}
		req.VersionNote, _ = flags.GetString("note")
		req.CopySkills, _ = flags.GetBool("copy-skills")
		if flags.Changed("sessions") {
			n, _ := flags.GetInt("sessions")
			req.SessionCount = &n
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).Create(commandContext(cmd), sheetID, req)
	},
}

var versionHistoryCmd = &cobra.Command{
	Use:   "history [sheet-id]",
	Short: "Show the version tree depth-first from the root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).History(commandContext(cmd), sheetID)
	},
}

var versionRootCmd = &cobra.Command{
	Use:   "root [sheet-id]",
	Short: "Show the root of the sheet's tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).Root(commandContext(cmd), sheetID)
	},
}

var versionLatestCmd = &cobra.Command{
	Use:   "latest [sheet-id]",
	Short: "Show the highest version of the sheet's tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).Latest(commandContext(cmd), sheetID)
	},
}

var versionCompareCmd = &cobra.Command{
	Use:   "compare [old-sheet-id] [new-sheet-id]",
	Short: "Compare abilities and skills of two versions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		to, err := parseID(args[1], "sheet_id")
		if err != nil {
			return err
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).Compare(commandContext(cmd), from, to)
	},
}

var versionRollbackCmd = &cobra.Command{
	Use:   "rollback [current-sheet-id] [target-sheet-id]",
	Short: "Create a new version copied from an older one",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		target, err := parseID(args[1], "target_sheet_id")
		if err != nil {
			return err
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).Rollback(commandContext(cmd), current, target)
	},
}

var versionSetParentCmd = &cobra.Command{
	Use:   "set-parent [sheet-id] [parent-sheet-id|root]",
	Short: "Re-attach a sheet to another parent, or make it a root",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		var parentID int64
		if args[1] != "root" {
			if parentID, err = parseID(args[1], "parent_sheet_id"); err != nil {
				return err
			}
		}
		return wire.VersionAdapterWithOutput(cmd.OutOrStdout()).SetParent(commandContext(cmd), sheetID, parentID)
	},
}

// VersionCmd returns the version command
func VersionCmd() *cobra.Command {
	// Flags
	versionCreateCmd.Flags().StringP("note", "n", "", "Version note (at most 500 characters)")
	versionCreateCmd.Flags().Int("sessions", 0, "Session count of the new version (default: copied)")
	versionCreateCmd.Flags().Bool("copy-skills", true, "Copy the source's skills")

	// Wire up subcommands
	versionCmd.AddCommand(versionCreateCmd)
	versionCmd.AddCommand(versionHistoryCmd)
	versionCmd.AddCommand(versionRootCmd)
	versionCmd.AddCommand(versionLatestCmd)
	versionCmd.AddCommand(versionCompareCmd)
	versionCmd.AddCommand(versionRollbackCmd)
	versionCmd.AddCommand(versionSetParentCmd)

	return versionCmd
}
