package agent

import (
	"net/http"
	"strconv"

	"emperror.dev/errors"
	"github.com/goccy/go-json"
	"github.com/jellydator/ttlcache/v3"
	log "github.com/sirupsen/logrus"

	"github.com/voluzi/peaktrace/pkg/monitor"
	"github.com/voluzi/peaktrace/pkg/utils"
)

func (a *Agent) registerRoutes() {
	a.router.HandleFunc("/healthz", a.healthz).Methods(http.MethodGet)
	a.router.HandleFunc("/status", a.status).Methods(http.MethodGet)
	a.router.HandleFunc("/series", a.series).Methods(http.MethodGet)
	a.router.HandleFunc("/report", a.report).Methods(http.MethodGet)
	a.router.HandleFunc("/usage", a.usage).Methods(http.MethodGet)
	a.router.HandleFunc("/flush", a.flushSeries).Methods(http.MethodPost)
}

func (a *Agent) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type statusResponse struct {
	Device        string `json:"device"`
	Measuring     bool   `json:"measuring"`
	Samples       int    `json:"samples"`
	Interval      string `json:"interval"`
	OutputDirSize int64  `json:"output_dir_size"`
}

func (a *Agent) status(w http.ResponseWriter, r *http.Request) {
	size, err := utils.DirSize(a.cfg.OutputDir)
	if err != nil {
		log.Errorf("error getting output directory size: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	snapshot := a.monitor.Series()
	b, err := json.Marshal(statusResponse{
		Device:        a.monitor.Device().String(),
		Measuring:     a.monitor.IsActive(),
		Samples:       len(snapshot.Usages),
		Interval:      a.monitor.Interval().String(),
		OutputDirSize: size,
	})
	if err != nil {
		log.Errorf("error encoding status to json: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (a *Agent) series(w http.ResponseWriter, r *http.Request) {
	b, err := json.Marshal(a.monitor.Series())
	if err != nil {
		log.Errorf("error encoding series to json: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// report serves a normalized copy of the series. The recorded data is
// left untouched so later sessions keep appending raw values.
func (a *Agent) report(w http.ResponseWriter, r *http.Request) {
	snapshot, err := a.monitor.Normalized()
	if err != nil {
		if errors.Is(err, monitor.ErrEmptySeries) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		log.Errorf("error normalizing series: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b, err := json.Marshal(snapshot)
	if err != nil {
		log.Errorf("error encoding report to json: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (a *Agent) usage(w http.ResponseWriter, r *http.Request) {
	device := a.monitor.Device()

	if item := a.usageCache.Get(device.String()); item != nil {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(strconv.FormatUint(item.Value(), 10)))
		return
	}

	used, err := a.provider.Sample(r.Context(), device)
	if err != nil {
		log.Errorf("error sampling %s usage: %v", device, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	a.usageCache.Set(device.String(), used, ttlcache.DefaultTTL)

	log.WithFields(log.Fields{
		"device": device.String(),
		"used":   used,
	}).Info("sampled device usage")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(strconv.FormatUint(used, 10)))
}

func (a *Agent) flushSeries(w http.ResponseWriter, r *http.Request) {
	path, err := a.flush()
	if err != nil {
		log.Errorf("error flushing series: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(path))
}
