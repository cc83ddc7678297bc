package commands

import (
	"demandcast/internal/ui"

	"github.com/spf13/cobra"
)

var (
	inspectSheet   string
	inspectPreview int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show headers, suggested columns and the first rows of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openSession(args[0], inspectSheet)
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).Inspect(session, inspectPreview)
		return nil
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectSheet, "sheet", "", "workbook sheet (default: first sheet)")
	inspectCmd.Flags().IntVarP(&inspectPreview, "preview", "n", 5, "rows to preview")
	rootCmd.AddCommand(inspectCmd)
}
