package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"

	"github.com/voluzi/peaktrace/pkg/agent"
)

var (
	host         string
	port         int
	device       string
	providerKind string
	feedPath     string
	createFifo   bool
	outputDir    string
	configFile   string
	samplePower  int
	meminfoPath  string
	worldSize    int
	trainingPID  int
	processName  string
	metricsURL   string
	metricFamily string
	metricScale  uint64
	logLevel     string
)

func main() {
	flag.Parse()

	if level, err := log.ParseLevel(logLevel); err == nil {
		log.SetLevel(level)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	traceAgent, err := agent.New(
		agent.WithHost(host),
		agent.WithPort(port),
		agent.WithDevice(device),
		agent.WithProviderKind(providerKind),
		agent.WithFeedPath(feedPath),
		agent.WithCreateFifo(createFifo),
		agent.WithOutputDir(outputDir),
		agent.WithConfigFile(configFile),
		agent.WithSamplePower(samplePower),
		agent.WithMeminfoPath(meminfoPath),
		agent.WithWorldSize(worldSize),
		agent.WithPID(int32(trainingPID)),
		agent.WithProcessName(processName),
		agent.WithMetricsURL(metricsURL),
		agent.WithMetricFamily(metricFamily),
		agent.WithMetricScale(metricScale),
	)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		sig := <-sigChan
		log.Infof("received signal: %v", sig)
		if err := traceAgent.Stop(); err != nil {
			log.Errorf("failed to stop trace agent: %v", err)
		}
	}()

	if err := traceAgent.Start(); err != nil {
		log.Fatal(err)
	}
}
