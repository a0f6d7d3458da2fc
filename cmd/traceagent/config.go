package main

import (
	"flag"

	"github.com/voluzi/peaktrace/pkg/agent"
	"github.com/voluzi/peaktrace/pkg/environ"
	"github.com/voluzi/peaktrace/pkg/monitor"
)

func init() {
	flag.StringVar(&host, "host",
		environ.GetString("HOST", "0.0.0.0"),
		"the host at which this server will be listening to",
	)

	flag.IntVar(&port, "port",
		environ.GetInt("PORT", agent.DefaultPort),
		"the port at which this server will be listening to",
	)

	flag.StringVar(&device, "device",
		environ.GetString("DEVICE", "cpu"),
		"the device to watch, either cpu or gpu:<index>",
	)

	flag.StringVar(&providerKind, "provider",
		environ.GetString("PROVIDER", agent.AutoProvider),
		"usage provider, one of auto, system, process or metrics",
	)

	flag.StringVar(&feedPath, "feed",
		environ.GetString("FEED_PATH", agent.DefaultFeedPath),
		"file or fifo to watch for boundary events",
	)

	flag.BoolVar(&createFifo, "create-fifo",
		environ.GetBool("CREATE_FIFO", true),
		"create the boundary fifo when it does not exist yet",
	)

	flag.StringVar(&outputDir, "output-dir",
		environ.GetString("OUTPUT_DIR", agent.DefaultOutputDir),
		"the directory where recorded series are flushed",
	)

	flag.StringVar(&configFile, "config-file",
		environ.GetString("CONFIG_FILE", ""),
		"optional TOML file with runtime settings, reloaded on change",
	)

	flag.IntVar(&samplePower, "sample-power",
		environ.GetInt("SAMPLE_POWER", monitor.DefaultSamplePower),
		"sampling rate as a power of ten per second",
	)

	flag.StringVar(&meminfoPath, "meminfo",
		environ.GetString("MEMINFO_PATH", ""),
		"override for the cgroup meminfo file of the system provider",
	)

	flag.IntVar(&worldSize, "world-size",
		environ.GetInt("WORLD_SIZE", 0),
		"ranks sharing this device, defaults to LOCAL_WORLD_SIZE",
	)

	flag.IntVar(&trainingPID, "pid",
		environ.GetInt("TRAINING_PID", 0),
		"pid of the training process for the process provider",
	)

	flag.StringVar(&processName, "process-name",
		environ.GetString("PROCESS_NAME", ""),
		"name of the training process for the process provider",
	)

	flag.StringVar(&metricsURL, "metrics-url",
		environ.GetString("METRICS_URL", ""),
		"override for the metrics endpoint of the metrics provider",
	)

	flag.StringVar(&metricFamily, "metric-family",
		environ.GetString("METRIC_FAMILY", ""),
		"override for the metric family of the metrics provider",
	)

	flag.Uint64Var(&metricScale, "metric-scale",
		environ.GetUint64("METRIC_SCALE", 0),
		"bytes per metric unit for the metrics provider",
	)

	flag.StringVar(&logLevel, "log-level",
		environ.GetString("LOG_LEVEL", "info"),
		"log level",
	)
}
