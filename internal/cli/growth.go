package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/wire"
)

var growthCmd = &cobra.Command{
	Use:   "growth",
	Short: "Record session outcomes",
	Long: `Record sanity, experience and skill growth per session. Recording growth
never changes skill values; update them with 'cocsheet skill set'.`,
}

var growthAddCmd = &cobra.Command{
	Use:   "add [sheet-id]",
	Short: "Record a session",
	Long: `Record a session and its skill rows in one step.

Skill rows are NAME:OLD:NEW[:ROLL]; giving a roll marks an experience check.

Examples:
  cocsheet growth add 1 --date 2026-10-03 --scenario "The Haunting" --san-lost 6 \
    --skill 目星:35:40:82 --skill 図書館:25:25`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		flags := cmd.Flags()

		date, _ := flags.GetString("date")
		req := primary.CreateGrowthRecordRequest{}
		if req.SessionDate, err = parseDate(date); err != nil {
			return err
		}
		req.ScenarioName, _ = flags.GetString("scenario")
		req.GMName, _ = flags.GetString("gm")
		req.SanityGained, _ = flags.GetInt("san-gained")
		req.SanityLost, _ = flags.GetInt("san-lost")
		req.ExperienceGained, _ = flags.GetInt("xp")
		req.SpecialRewards, _ = flags.GetString("rewards")
		req.Notes, _ = flags.GetString("notes")

		rows, _ := flags.GetStringArray("skill")
		for _, row := range rows {
			g, err := parseSkillGrowth(row)
			if err != nil {
				return err
			}
			req.Skills = append(req.Skills, g)
		}

		return wire.GrowthAdapterWithOutput(cmd.OutOrStdout()).Record(commandContext(cmd), sheetID, req)
	},
}

var growthAddSkillCmd = &cobra.Command{
	Use:   "add-skill [record-id] [NAME:OLD:NEW[:ROLL]]",
	Short: "Append a skill row to a session record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		recordID, err := parseID(args[0], "growth_record_id")
		if err != nil {
			return err
		}
		req, err := parseSkillGrowth(args[1])
		if err != nil {
			return err
		}
		return wire.GrowthAdapterWithOutput(cmd.OutOrStdout()).AddSkill(commandContext(cmd), recordID, req)
	},
}

var growthListCmd = &cobra.Command{
	Use:   "list [sheet-id]",
	Short: "List session records, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.GrowthAdapterWithOutput(cmd.OutOrStdout()).List(commandContext(cmd), sheetID)
	},
}

var growthSummaryCmd = &cobra.Command{
	Use:   "summary [sheet-id]",
	Short: "Total every session of a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.GrowthAdapterWithOutput(cmd.OutOrStdout()).Summary(commandContext(cmd), sheetID)
	},
}

// GrowthCmd returns the growth command
func GrowthCmd() *cobra.Command {
	// Flags
	f := growthAddCmd.Flags()
	f.String("date", "", "Session date YYYY-MM-DD (default today)")
	f.StringP("scenario", "s", "", "Scenario name")
	f.String("gm", "", "Game master")
	f.Int("san-gained", 0, "Sanity gained")
	f.Int("san-lost", 0, "Sanity lost")
	f.Int("xp", 0, "Experience gained")
	f.String("rewards", "", "Special rewards")
	f.String("notes", "", "Notes")
	f.StringArray("skill", nil, "Skill row NAME:OLD:NEW[:ROLL] (repeatable)")

	// Wire up subcommands
	growthCmd.AddCommand(growthAddCmd)
	growthCmd.AddCommand(growthAddSkillCmd)
	growthCmd.AddCommand(growthListCmd)
	growthCmd.AddCommand(growthSummaryCmd)

	return growthCmd
}
