package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/peaktrace/pkg/export"
	"github.com/voluzi/peaktrace/pkg/phase"
)

var raw bool

var reportCmd = &cobra.Command{
	Use:   "report <series-file>",
	Short: "Renders a report from a recorded series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		snapshot, err := export.ReadSeries(args[0])
		if err != nil {
			log.Fatal(err)
		}
		if !raw {
			if err := snapshot.Normalize(); err != nil {
				log.Fatal(err)
			}
		}
		if err := phase.WriteReport(os.Stdout, snapshot); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&raw, "raw", false,
		"Render absolute timestamps and usages instead of normalized ones",
	)
}
