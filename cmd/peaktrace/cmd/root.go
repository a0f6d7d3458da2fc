package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/voluzi/peaktrace/pkg/environ"
	"github.com/voluzi/peaktrace/pkg/export"
)

var exporter export.Exporter
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "peaktrace",
	Short: "CLI tool for inspecting and managing recorded memory traces",
	Long:  `Peaktrace is a command-line tool for rendering reports from recorded peak-memory series and moving trace bundles to external storage.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		log.SetLevel(logLvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel,
		"log-level",
		environ.GetString("LOG_LEVEL", "info"),
		"Log level. One of debug, info, warn, error, fatal, panic.",
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
