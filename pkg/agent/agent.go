// Package agent runs the tracing sidecar next to a training process:
// it consumes boundary events from the trace feed, drives the sampling
// monitor through them and serves the recorded series over HTTP.
package agent

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"emperror.dev/errors"
	"github.com/gorilla/mux"
	"github.com/jellydator/ttlcache/v3"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/peaktrace/pkg/export"
	"github.com/voluzi/peaktrace/pkg/memusage"
	"github.com/voluzi/peaktrace/pkg/monitor"
	"github.com/voluzi/peaktrace/pkg/phase"
	"github.com/voluzi/peaktrace/pkg/tracefeed"
)

const seriesFilename = "series.json"

type Agent struct {
	server     *http.Server
	router     *mux.Router
	cfg        *Options
	provider   memusage.Provider
	monitor    *monitor.Monitor
	sequencer  *phase.Sequencer
	feed       *tracefeed.Feed
	usageCache *ttlcache.Cache[string, uint64]
	configHash string
}

func New(opts ...Option) (*Agent, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	device, err := memusage.ParseDevice(options.Device)
	if err != nil {
		return nil, err
	}

	provider := options.CustomProvider
	if provider == nil {
		provider, err = buildProvider(options)
		if err != nil {
			return nil, err
		}
	}

	feed, err := tracefeed.NewFeed(options.FeedPath, options.CreateFifo)
	if err != nil {
		return nil, err
	}

	m := monitor.New(provider, device, monitor.WithSamplePower(options.SamplePower))

	return &Agent{
		cfg:       options,
		router:    mux.NewRouter(),
		provider:  provider,
		monitor:   m,
		sequencer: phase.NewSequencer(m),
		feed:      feed,
		usageCache: ttlcache.New(
			ttlcache.WithTTL[string, uint64](options.UsageCacheTTL),
			ttlcache.WithDisableTouchOnHit[string, uint64](),
		),
	}, nil
}

// buildProvider assembles the usage provider the options describe. The
// default routes by device kind: system memory for cpu, the metrics
// exporter for gpu.
func buildProvider(options *Options) (memusage.Provider, error) {
	systemOpts := []memusage.Option{}
	if options.MeminfoPath != "" {
		systemOpts = append(systemOpts, memusage.WithMeminfoPath(options.MeminfoPath))
	}
	if options.WorldSize > 0 {
		systemOpts = append(systemOpts, memusage.WithWorldSize(options.WorldSize))
	}

	metricsOpts := []memusage.Option{}
	if options.MetricsURL != "" {
		metricsOpts = append(metricsOpts, memusage.WithMetricsURL(options.MetricsURL))
	}
	if options.MetricFamily != "" {
		metricsOpts = append(metricsOpts, memusage.WithMetricFamily(options.MetricFamily))
	}
	if options.MetricScale > 0 {
		metricsOpts = append(metricsOpts, memusage.WithMetricScale(options.MetricScale))
	}

	switch options.Provider {
	case SystemProvider:
		return memusage.NewSystemProvider(systemOpts...), nil
	case ProcessProvider:
		processOpts := []memusage.Option{}
		if options.PID != 0 {
			processOpts = append(processOpts, memusage.WithPID(options.PID))
		}
		if options.ProcessName != "" {
			processOpts = append(processOpts, memusage.WithProcessName(options.ProcessName))
		}
		return memusage.NewProcessProvider(processOpts...)
	case MetricsProvider:
		return memusage.NewMetricsProvider(metricsOpts...), nil
	case AutoProvider:
		return memusage.Dispatch{
			memusage.DeviceCPU: memusage.NewSystemProvider(systemOpts...),
			memusage.DeviceGPU: memusage.NewMetricsProvider(metricsOpts...),
		}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", options.Provider)
	}
}

func (a *Agent) Start() error {
	a.registerRoutes()

	go a.feed.Start()
	go a.consumeEvents()

	if a.cfg.ConfigFile != "" {
		if err := a.loadConfig(); err != nil {
			return err
		}
		go func() {
			if err := a.watchConfigFile(); err != nil {
				log.Errorf("error watching config file: %v", err)
			}
		}()
	}

	a.server = &http.Server{Addr: fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port), Handler: a.router}
	log.Infof("server started listening on %s:%d ...\n\n", a.cfg.Host, a.cfg.Port)
	err := a.server.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// consumeEvents drives the sequencer from the feed. Bad events are
// logged and skipped; the feed must survive a misbehaving writer.
func (a *Agent) consumeEvents() {
	for event := range a.feed.Events {
		if event.Err != nil {
			log.Errorf("error on boundary event: %v", event.Err)
			continue
		}

		log.WithFields(log.Fields{
			"boundary": event.Boundary.String(),
			"training": event.Training,
			"module":   event.Module,
			"step":     event.Step,
		}).Debug("boundary event")

		if err := a.sequencer.Observe(event.Boundary, event.Training); err != nil {
			log.Errorf("error observing %s: %v", event.Boundary, err)
		}
	}
}

func (a *Agent) Stop() error {
	log.Info("stopping agent")

	if err := a.feed.Stop(); err != nil {
		log.Errorf("failed to stop event feed: %v", err)
	}

	// A session left open by a missed end boundary still gets recorded.
	if a.monitor.IsActive() {
		if _, err := a.monitor.Finish(); err != nil {
			log.Errorf("failed to finish open session: %v", err)
		}
	}

	if _, err := a.flush(); err != nil {
		log.Errorf("failed to flush series: %v", err)
	}

	if a.server == nil {
		return fmt.Errorf("server was not started")
	}

	log.Debug("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.server.Shutdown(ctx)
}

func (a *Agent) flush() (string, error) {
	path := filepath.Join(a.cfg.OutputDir, seriesFilename)
	if err := export.WriteSeries(path, a.monitor.Series()); err != nil {
		return "", err
	}
	log.WithField("path", path).Info("series flushed")
	return path, nil
}
