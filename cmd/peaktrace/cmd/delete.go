package cmd

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/peaktrace/pkg/environ"
	"github.com/voluzi/peaktrace/pkg/export"
)

var concurrentDeleteJobs int

var deleteCmd = &cobra.Command{
	Use:   "delete <bucket> <name>",
	Short: "Deletes a trace bundle from external storage",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		bucket, name := args[0], args[1]
		start := time.Now()
		err := exporter.Delete(bucket, name,
			export.WithConcurrentDeleteJobs(concurrentDeleteJobs),
		)
		if err != nil {
			log.Fatal(err)
		}
		log.WithField("time-elapsed", time.Since(start)).Info("delete successful")
	},
}

func init() {
	deleteCmd.Flags().IntVar(&concurrentDeleteJobs, "concurrent-jobs",
		environ.GetInt("CONCURRENT_JOBS", export.DefaultConcurrentJobs),
		"Number of concurrent jobs",
	)
}
