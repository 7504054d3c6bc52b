package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/wire"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage a sheet's skills and skill points",
}

var skillListCmd = &cobra.Command{
	Use:   "list [sheet-id]",
	Short: "List skills with their point breakdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).List(commandContext(cmd), sheetID)
	},
}

var skillSetCmd = &cobra.Command{
	Use:   "set [sheet-id] [name]",
	Short: "Create or overwrite one skill",
	Long: `Write every component of one skill. Without --base a new skill takes the
catalog base value and an existing skill keeps its base.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		req := primary.UpsertSkillRequest{Name: args[1]}
		req.Category, _ = flags.GetString("category")
		req.OccupationPoints, _ = flags.GetInt("occ")
		req.InterestPoints, _ = flags.GetInt("int")
		req.BonusPoints, _ = flags.GetInt("bonus")
		req.OtherPoints, _ = flags.GetInt("other")
		req.Notes, _ = flags.GetString("notes")
		if flags.Changed("base") {
			base, _ := flags.GetInt("base")
			req.BaseValue = &base
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).Set(commandContext(cmd), sheetID, req)
	},
}

var skillDeleteCmd = &cobra.Command{
	Use:   "delete [sheet-id] [skill-id]",
	Short: "Delete a skill",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		skillID, err := parseID(args[1], "skill_id")
		if err != nil {
			return err
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).Delete(commandContext(cmd), sheetID, skillID)
	},
}

var skillAllocateCmd = &cobra.Command{
	Use:   "allocate [sheet-id] [NAME=OCC/INT[/OTHER]]...",
	Short: "Allocate occupation and interest points atomically",
	Long: `Set the occupation, interest and optional other points of one or more skills.
Either every allocation is applied or none is. Missing skills are created.

Examples:
  cocsheet skill allocate 1 目星=50/0 図書館=40/20`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		allocs := make([]primary.Allocation, 0, len(args)-1)
		for _, arg := range args[1:] {
			a, err := parseAllocation(arg)
			if err != nil {
				return err
			}
			allocs = append(allocs, a)
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).Allocate(commandContext(cmd), sheetID, allocs)
	},
}

var skillResetCmd = &cobra.Command{
	Use:   "reset [sheet-id]",
	Short: "Zero occupation and interest points on every skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).Reset(commandContext(cmd), sheetID)
	},
}

var skillTemplateCmd = &cobra.Command{
	Use:   "template [sheet-id]",
	Short: "Add the sheet occupation's template skills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).ApplyTemplate(commandContext(cmd), sheetID)
	},
}

var skillPointsCmd = &cobra.Command{
	Use:   "points [sheet-id]",
	Short: "Show occupation and interest budgets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).Points(commandContext(cmd), sheetID)
	},
}

var skillBackupCmd = &cobra.Command{
	Use:   "backup [sheet-id]",
	Short: "Write the sheet's skills as YAML",
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
		return wire.SkillAdapterWithOutput(cmd.ErrOrStderr()).Backup(commandContext(cmd), sheetID, out)
	},
}

var skillRestoreCmd = &cobra.Command{
	Use:   "restore [sheet-id] [backup.yaml]",
	Short: "Restore skills from a YAML backup without budget checks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return errs.Validation("file", "cannot open backup: %v", err)
		}
		defer f.Close()
		return wire.SkillAdapterWithOutput(cmd.OutOrStdout()).Restore(commandContext(cmd), sheetID, f)
	},
}

// SkillCmd returns the skill command
func SkillCmd() *cobra.Command {
	// Flags
	sf := skillSetCmd.Flags()
	sf.String("category", "", "Skill category (combat, firearms, exploration, action, negotiation, knowledge, language, other)")
	sf.Int("base", 0, "Base value (default from the catalog)")
	sf.Int("occ", 0, "Occupation points")
	sf.Int("int", 0, "Interest points")
	sf.Int("bonus", 0, "Bonus points")
	sf.Int("other", 0, "Other points")
	sf.String("notes", "", "Notes")

	skillBackupCmd.Flags().StringP("file", "f", "", "Write to a file instead of stdout")

	// Wire up subcommands
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillSetCmd)
	skillCmd.AddCommand(skillDeleteCmd)
	skillCmd.AddCommand(skillAllocateCmd)
	skillCmd.AddCommand(skillResetCmd)
	skillCmd.AddCommand(skillTemplateCmd)
	skillCmd.AddCommand(skillPointsCmd)
	skillCmd.AddCommand(skillBackupCmd)
	skillCmd.AddCommand(skillRestoreCmd)

	return skillCmd
}
