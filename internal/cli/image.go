package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/cocsheet/internal/ports/primary"
	"github.com/example/cocsheet/internal/wire"
)

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage character image handles",
}

var imageAddCmd = &cobra.Command{
	Use:   "add [sheet-id] [handle]",
	Short: "Register an image handle (a UUID is generated when omitted)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		req := primary.AddImageRequest{}
		if len(args) == 2 {
			req.Handle = args[1]
		}
		req.IsMain, _ = cmd.Flags().GetBool("main")
		req.Order, _ = cmd.Flags().GetInt("order")
		return wire.ImageAdapterWithOutput(cmd.OutOrStdout()).Add(commandContext(cmd), sheetID, req)
	},
}

var imageListCmd = &cobra.Command{
	Use:   "list [sheet-id]",
	Short: "List image handles, main first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		return wire.ImageAdapterWithOutput(cmd.OutOrStdout()).List(commandContext(cmd), sheetID)
	},
}

var imageMainCmd = &cobra.Command{
	Use:   "main [sheet-id] [image-id]",
	Short: "Make an image the main image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		imageID, err := parseID(args[1], "image_id")
		if err != nil {
			return err
		}
		return wire.ImageAdapterWithOutput(cmd.OutOrStdout()).SetMain(commandContext(cmd), sheetID, imageID)
	},
}

var imageDeleteCmd = &cobra.Command{
	Use:   "delete [sheet-id] [image-id]",
	Short: "Delete an image handle",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheetID, err := parseID(args[0], "sheet_id")
		if err != nil {
			return err
		}
		imageID, err := parseID(args[1], "image_id")
		if err != nil {
			return err
		}
		return wire.ImageAdapterWithOutput(cmd.OutOrStdout()).Delete(commandContext(cmd), sheetID, imageID)
	},
}

// ImageCmd returns the image command
func ImageCmd() *cobra.Command {
	imageAddCmd.Flags().Bool("main", false, "Make this the main image")
	imageAddCmd.Flags().Int("order", 0, "Display order")

	imageCmd.AddCommand(imageAddCmd)
	imageCmd.AddCommand(imageListCmd)
	imageCmd.AddCommand(imageMainCmd)
	imageCmd.AddCommand(imageDeleteCmd)

	return imageCmd
}
