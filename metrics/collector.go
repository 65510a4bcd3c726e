package metrics

import (
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/philipp01105/logchan/core"
	"github.com/philipp01105/logchan/logger"
	"github.com/philipp01105/logchan/sink"
)

// Collector is a prometheus.Collector over registered channels and sinks.
type Collector struct {
	emitted    *prometheus.Desc
	filtered   *prometheus.Desc
	sinkErrors *prometheus.Desc
	processed  *prometheus.Desc
	failed     *prometheus.Desc
	dropped    *prometheus.Desc

	mu       sync.RWMutex
	channels []*logger.Channel
	sinks    map[string]sink.StatsProvider
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	name := func(subsystem, metric string) string {
		return prometheus.BuildFQName(namespace, subsystem, metric)
	}
	return &Collector{
		emitted: prometheus.NewDesc(name("channel", "emitted_total"),
			"Entries that passed the channel threshold.", []string{"channel"}, nil),
		filtered: prometheus.NewDesc(name("channel", "filtered_total"),
			"Entries rejected by the channel threshold.", []string{"channel"}, nil),
		sinkErrors: prometheus.NewDesc(name("channel", "sink_errors_total"),
			"Sink calls that failed or panicked.", []string{"channel"}, nil),
		processed: prometheus.NewDesc(name("sink", "processed_total"),
			"Entries written by the sink.", []string{"sink"}, nil),
		failed: prometheus.NewDesc(name("sink", "failed_total"),
			"Entries the sink failed to render or write.", []string{"sink"}, nil),
		dropped: prometheus.NewDesc(name("sink", "dropped_total"),
			"Entries the sink discarded, by level.", []string{"sink", "level"}, nil),
		sinks: make(map[string]sink.StatsProvider),
	}
}

// AddChannel registers ch. Adding the same channel twice does nothing.
func (c *Collector) AddChannel(ch *logger.Channel) {
	if ch == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.channels {
		if existing == ch {
			return
		}
	}
	c.channels = append(c.channels, ch)
}

// AddSink registers p under name, replacing any sink of the same name.
func (c *Collector) AddSink(name string, p sink.StatsProvider) {
	if p == nil {
		return
	}
	c.mu.Lock()
	c.sinks[name] = p
	c.mu.Unlock()
}

// RemoveSink unregisters the sink called name.
func (c *Collector) RemoveSink(name string) {
	c.mu.Lock()
	delete(c.sinks, name)
	c.mu.Unlock()
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.emitted
	ch <- c.filtered
	ch <- c.sinkErrors
	ch <- c.processed
	ch <- c.failed
	ch <- c.dropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, channel := range c.channels {
		st := channel.Stats()
		name := channel.Name()
		ch <- prometheus.MustNewConstMetric(c.emitted, prometheus.CounterValue, float64(st.Emitted), name)
		ch <- prometheus.MustNewConstMetric(c.filtered, prometheus.CounterValue, float64(st.Filtered), name)
		ch <- prometheus.MustNewConstMetric(c.sinkErrors, prometheus.CounterValue, float64(st.SinkErrors), name)
	}

	for name, p := range c.sinks {
		snap := p.Stats()
		ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, float64(snap.ProcessedTotal), name)
		ch <- prometheus.MustNewConstMetric(c.failed, prometheus.CounterValue, float64(snap.FailedTotal), name)
		for _, l := range core.Levels() {
			ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue,
				float64(snap.DroppedTotal[l]), name, strings.ToLower(l.String()))
		}
	}
}

// Handler returns an HTTP handler serving the collector from a private
// registry.
func (c *Collector) Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(c)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
