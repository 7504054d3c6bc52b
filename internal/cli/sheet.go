package cli

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/core/stats"
	"github.com/example/cocsheet/internal/errs"
	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/wire"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Manage character sheets",
	Long:  "Create, inspect, update and delete 6th edition investigator sheets",
}

var sheetCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new sheet",
	Long: `Create a sheet with derived stats computed from its abilities.

Examples:
  cocsheet sheet create "Harvey Walters" --occupation detective --str 13 --con 14 ...
  cocsheet sheet create "Kate Winthrop" --roll`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd)
		flags := cmd.Flags()

		req := primary.CreateSheetRequest{Name: args[0]}
		req.Edition, _ = flags.GetString("edition")
		req.PlayerName, _ = flags.GetString("player")
		req.Age, _ = flags.GetInt("age")
		req.Gender, _ = flags.GetString("gender")
		req.Occupation, _ = flags.GetString("occupation")
		req.Birthplace, _ = flags.GetString("birthplace")
		req.Residence, _ = flags.GetString("residence")
		req.OccupationMultiplier, _ = flags.GetInt("multiplier")
		req.Status, _ = flags.GetString("status")
		req.IsPublic, _ = flags.GetBool("public")
		req.MentalDisorder, _ = flags.GetString("disorder")
		req.RealEstate, _ = flags.GetString("real-estate")

		var err error
		if req.Cash, err = decimalFlag(cmd, "cash"); err != nil {
			return err
		}
		if req.Assets, err = decimalFlag(cmd, "assets"); err != nil {
			return err
		}
		if req.AnnualIncome, err = decimalFlag(cmd, "income"); err != nil {
			return err
		}

		if roll, _ := flags.GetBool("roll"); roll {
			req.Abilities, err = wire.DiceAdapterWithOutput(cmd.OutOrStdout()).RollAbilities()
			if err != nil {
				return err
			}
		}
		applyAbilityFlags(cmd, &req.Abilities)

		_, err = wire.SheetAdapterWithOutput(cmd.OutOrStdout()).Create(ctx, req)
		return err
	},
}

var sheetShowCmd = &cobra.Command{
	Use:   "show [sheet-id]",
	Short: "Show sheet details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		_, err = wire.SheetAdapterWithOutput(cmd.OutOrStdout()).Show(commandContext(cmd), id)
		return err
	},
}

var sheetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your sheets",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		filters := primary.SheetFilters{}
		filters.Edition, _ = flags.GetString("edition")
		filters.Limit, _ = flags.GetInt("limit")
		filters.Offset, _ = flags.GetInt("offset")
		if flags.Changed("active") {
			active, _ := flags.GetBool("active")
			filters.IsActive = &active
		}
		return wire.SheetAdapterWithOutput(cmd.OutOrStdout()).List(commandContext(cmd), filters)
	},
}

var sheetUpdateCmd = &cobra.Command{
	Use:   "update [sheet-id]",
	Short: "Update sheet fields",
	Long: `Update the given fields only. Derived maxima (--hp-max etc.) are written
verbatim; --recompute refreshes them from the abilities instead.

Examples:
  cocsheet sheet update 1 --hp 9 --san 48
  cocsheet sheet update 1 --con 18 --recompute`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)

		var current stats.Abilities
		if abilityFlagsChanged(cmd) {
			sh, err := wire.SheetService().GetSheet(ctx, wire.Actor(), id)
			if err != nil {
				return err
			}
			current = sh.Abilities
		}
		patch, err := buildSheetPatch(cmd, current)
		if err != nil {
			return err
		}
		return wire.SheetAdapterWithOutput(cmd.OutOrStdout()).Update(ctx, id, patch)
	},
}

var sheetDeleteCmd = &cobra.Command{
	Use:   "delete [sheet-id]",
	Short: "Delete a sheet, its skills, records, images and later versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.SheetAdapterWithOutput(cmd.OutOrStdout()).Delete(commandContext(cmd), id)
	},
}

var sheetRecomputeCmd = &cobra.Command{
	Use:   "recompute [sheet-id]",
	Short: "Recompute derived stats from the abilities",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.SheetAdapterWithOutput(cmd.OutOrStdout()).Recompute(commandContext(cmd), id)
	},
}

var sheetLogCmd = &cobra.Command{
	Use:   "log [sheet-id]",
	Short: "Show a sheet's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.LogAdapterWithOutput(cmd.OutOrStdout()).List(commandContext(cmd), id)
	},
}

// addAbilityFlags registers --str ... --edu on flags.
func addAbilityFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	for _, name := range stats.AbilityNames {
		flags.Int(strings.ToLower(name), 0, name+" score")
	}
}

// applyAbilityFlags copies every explicitly set ability flag into a.
func applyAbilityFlags(cmd *cobra.Command, a *stats.Abilities) bool {
	flags := cmd.Flags()
	changed := false
	for _, name := range stats.AbilityNames {
		flag := strings.ToLower(name)
		if flags.Changed(flag) {
			v, _ := flags.GetInt(flag)
			a.Set(name, v)
			changed = true
		}
	}
	return changed
}

func abilityFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range stats.AbilityNames {
		if cmd.Flags().Changed(strings.ToLower(name)) {
			return true
		}
	}
	return false
}

func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	s, _ := cmd.Flags().GetString(name)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errs.Validation(strings.ReplaceAll(name, "-", "_"), "invalid amount %q", s)
	}
	return d, nil
}

// buildSheetPatch turns the update flags that were set into a patch.
// Ability flags are applied on top of current, since abilities are
// replaced as a whole.
func buildSheetPatch(cmd *cobra.Command, current stats.Abilities) (primary.SheetPatch, error) {
	flags := cmd.Flags()
	var p primary.SheetPatch

	strs := map[string]**string{
		"name":        &p.Name,
		"player":      &p.PlayerName,
		"gender":      &p.Gender,
		"occupation":  &p.Occupation,
		"birthplace":  &p.Birthplace,
		"residence":   &p.Residence,
		"edition":     &p.Edition,
		"status":      &p.Status,
		"note":        &p.VersionNote,
		"disorder":    &p.MentalDisorder,
		"real-estate": &p.RealEstate,
	}
	for flag, dst := range strs {
		if flags.Changed(flag) {
			v, _ := flags.GetString(flag)
			*dst = &v
		}
	}

	ints := map[string]**int{
		"age":        &p.Age,
		"multiplier": &p.OccupationMultiplier,
		"hp":         &p.HPCurrent,
		"hp-max":     &p.HPMax,
		"mp":         &p.MPCurrent,
		"mp-max":     &p.MPMax,
		"san":        &p.SanCurrent,
		"san-max":    &p.SanMax,
		"sessions":   &p.SessionCount,
	}
	for flag, dst := range ints {
		if flags.Changed(flag) {
			v, _ := flags.GetInt(flag)
			*dst = &v
		}
	}

	bools := map[string]**bool{
		"active": &p.IsActive,
		"public": &p.IsPublic,
	}
	for flag, dst := range bools {
		if flags.Changed(flag) {
			v, _ := flags.GetBool(flag)
			*dst = &v
		}
	}

	moneys := map[string]**decimal.Decimal{
		"cash":   &p.Cash,
		"assets": &p.Assets,
		"income": &p.AnnualIncome,
	}
	for flag, dst := range moneys {
		if flags.Changed(flag) {
			d, err := decimalFlag(cmd, flag)
			if err != nil {
				return primary.SheetPatch{}, err
			}
			*dst = &d
		}
	}

	ab := current
	if applyAbilityFlags(cmd, &ab) {
		p.Abilities = &ab
	}

	p.Recompute, _ = flags.GetBool("recompute")
	return p, nil
}

// addUpdateFlags registers the sheet update flags on cmd.
func addUpdateFlags(cmd *cobra.Command) {
	uf := cmd.Flags()
	uf.String("name", "", "Character name")
	uf.StringP("player", "p", "", "Player name")
	uf.Int("age", 0, "Age")
	uf.String("gender", "", "Gender")
	uf.StringP("occupation", "o", "", "Occupation")
	uf.String("birthplace", "", "Birthplace")
	uf.String("residence", "", "Residence")
	uf.String("edition", "", "Rule edition")
	uf.Int("multiplier", 0, "Occupation point multiplier")
	uf.Int("hp", 0, "Current HP")
	uf.Int("hp-max", 0, "Maximum HP")
	uf.Int("mp", 0, "Current MP")
	uf.Int("mp-max", 0, "Maximum MP")
	uf.Int("san", 0, "Current SAN")
	uf.Int("san-max", 0, "Maximum SAN")
	uf.String("status", "", "Status (alive, dead, insane, injured, missing, retired)")
	uf.String("note", "", "Version note")
	uf.Int("sessions", 0, "Session count")
	uf.Bool("active", true, "Whether the sheet is active")
	uf.Bool("public", false, "Whether the sheet is public")
	uf.String("disorder", "", "Mental disorder")
	uf.String("cash", "", "Cash on hand")
	uf.String("assets", "", "Assets")
	uf.String("income", "", "Annual income")
	uf.String("real-estate", "", "Real estate")
	uf.Bool("recompute", false, "Recompute derived stats after the update")
	addAbilityFlags(cmd)
}

// SheetCmd returns the sheet command
func SheetCmd() *cobra.Command {
	// Flags
	cf := sheetCreateCmd.Flags()
	cf.String("edition", "", "Rule edition (default 6th)")
	cf.StringP("player", "p", "", "Player name")
	cf.Int("age", 0, "Age")
	cf.String("gender", "", "Gender")
	cf.StringP("occupation", "o", "", "Occupation (template key or free text)")
	cf.String("birthplace", "", "Birthplace")
	cf.String("residence", "", "Residence")
	cf.Int("multiplier", 0, "Occupation point multiplier (default from the template, else 20)")
	cf.String("status", "", "Status (alive, dead, insane, injured, missing, retired)")
	cf.Bool("public", false, "Make the sheet visible to everyone")
	cf.String("disorder", "", "Mental disorder")
	cf.String("cash", "", "Cash on hand")
	cf.String("assets", "", "Assets")
	cf.String("income", "", "Annual income")
	cf.String("real-estate", "", "Real estate")
	cf.Bool("roll", false, "Roll abilities (3D6, SIZ/INT 2D6+6, EDU 3D6+3); ability flags override")
	addAbilityFlags(sheetCreateCmd)

	addUpdateFlags(sheetUpdateCmd)

	lf := sheetListCmd.Flags()
	lf.String("edition", "", "Filter by edition")
	lf.Bool("active", true, "Filter by active flag")
	lf.Int("limit", 0, "Maximum rows (0 = all)")
	lf.Int("offset", 0, "Rows to skip")

	// Wire up subcommands
	sheetCmd.AddCommand(sheetCreateCmd)
	sheetCmd.AddCommand(sheetShowCmd)
	sheetCmd.AddCommand(sheetListCmd)
	sheetCmd.AddCommand(sheetUpdateCmd)
	sheetCmd.AddCommand(sheetDeleteCmd)
	sheetCmd.AddCommand(sheetRecomputeCmd)
	sheetCmd.AddCommand(sheetLogCmd)

	return sheetCmd
}
