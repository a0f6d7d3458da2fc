package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/peaktrace/pkg/environ"
	"github.com/voluzi/peaktrace/pkg/export"
)

var reportPeriod time.Duration
var bufferSize string
var labels map[string]string

var uploadCmd = &cobra.Command{
	Use:   "upload <dir> <bucket> <name>",
	Short: "Uploads a trace bundle to external storage",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		dir, bucket, name := args[0], args[1], args[2]
		start := time.Now()
		err := exporter.Upload(dir, bucket, name,
			export.WithReportPeriod(reportPeriod),
			export.WithBufferSize(bufferSize),
			export.WithMetadata(labels),
		)
		if err != nil {
			log.Fatal(err)
		}
		log.WithField("time-elapsed", time.Since(start)).Info("upload successful")
	},
}

func init() {
	uploadCmd.Flags().DurationVar(&reportPeriod, "report-period",
		environ.GetDuration("REPORT_PERIOD", export.DefaultReportPeriod),
		"Period for progress reporting",
	)
	uploadCmd.Flags().StringVar(&bufferSize, "buffer-size",
		environ.GetString("BUFFER_SIZE", export.DefaultBufferSize),
		"Buffer size on upload",
	)
	uploadCmd.Flags().StringToStringVar(&labels, "label", nil,
		"Extra object metadata as key=value pairs",
	)
}
