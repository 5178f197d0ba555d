package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/thesisgen/internal/export"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the serialized dataset as SQLite or CSV",
	Long: `
Flatten the serialized dataset in the data directory into a single SQLite
database (default) or one CSV file per collection. Nested values are stored
as JSON text.

Examples:
  thesisgen export
  thesisgen export --csv
  thesisgen export --sqlite --out ./snapshots`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		kind := export.SnapshotSQLite
		if csv, _ := cmd.Flags().GetBool("csv"); csv {
			kind = export.SnapshotCSV
		}

		exportPath, err := export.Snapshot(context.Background(), cfg.DataDir, exportOut, kind)
		if err != nil {
			return err
		}
		log.Debug("snapshot written", zap.String("kind", kind), zap.String("path", exportPath))

		fmt.Printf("✅ Export completed: %s\n", exportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().BoolP("sqlite", "s", false, "Export as SQLite (default)")
	exportCmd.Flags().BoolP("csv", "c", false, "Export as CSV")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "exports", "Directory for the snapshot")
	exportCmd.MarkFlagsMutuallyExclusive("sqlite", "csv")
}
