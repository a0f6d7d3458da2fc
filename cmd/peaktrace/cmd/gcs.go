package cmd

import (
	"github.com/spf13/cobra"

	"github.com/voluzi/peaktrace/pkg/export"
)

var gcsCmd = &cobra.Command{
	Use:   "gcs",
	Short: "Google Cloud Storage (GCS) operations",
	Long:  "Manage trace bundle uploads and deletions in Google Cloud Storage (GCS).",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := cmd.Parent().PersistentPreRunE(cmd.Parent(), args)
		if err != nil {
			return err
		}
		exporter, err = export.FromProvider(export.GCS)
		return err
	},
}

func init() {
	rootCmd.AddCommand(gcsCmd)
	gcsCmd.AddCommand(uploadCmd)
	gcsCmd.AddCommand(deleteCmd)
}
