package memusage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	prom "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const (
	// DefaultMetricFamily is the frame buffer usage gauge published by
	// the NVIDIA DCGM exporter, in MiB.
	DefaultMetricFamily = "DCGM_FI_DEV_FB_USED"
	DefaultMetricScale  = 1 << 20
)

// MetricsProvider samples GPU memory usage from a Prometheus metrics
// endpoint, such as the DCGM exporter running on the node. The sample
// for a device is the value of the configured metric family whose
// device label matches the device index, scaled to bytes.
type MetricsProvider struct {
	url    string
	family string
	scale  uint64
	label  string
	client *http.Client
}

func NewMetricsProvider(opts ...Option) *MetricsProvider {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	return &MetricsProvider{
		url:    options.MetricsURL,
		family: options.MetricFamily,
		scale:  options.MetricScale,
		label:  options.DeviceLabel,
		client: &http.Client{Timeout: options.RequestTimeout},
	}
}

func (p *MetricsProvider) Sample(ctx context.Context, device Device) (uint64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return 0, Terminal(err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("GET %s: %s: %s", p.url, resp.Status, strings.TrimSpace(string(b)))
	}

	parser := expfmt.TextParser{}
	fams, err := parser.TextToMetricFamilies(resp.Body)
	if err != nil {
		return 0, err
	}

	mf, ok := fams[p.family]
	if !ok {
		return 0, Terminal(fmt.Errorf("metric family %s not exposed by %s", p.family, p.url))
	}

	value, ok := deviceValue(mf, p.label, strconv.Itoa(device.Index))
	if !ok {
		return 0, Terminal(fmt.Errorf("metric %s has no sample with %s=%d", p.family, p.label, device.Index))
	}
	if value < 0 {
		value = 0
	}
	return uint64(value * float64(p.scale)), nil
}

func deviceValue(mf *prom.MetricFamily, label, want string) (float64, bool) {
	for _, m := range mf.Metric {
		for _, lp := range m.Label {
			if lp.GetName() == label && lp.GetValue() == want {
				return metricValue(m), true
			}
		}
	}
	return 0, false
}

func metricValue(m *prom.Metric) float64 {
	switch {
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Untyped != nil:
		return m.Untyped.GetValue()
	}
	return 0
}
