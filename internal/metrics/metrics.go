package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shuttle-service/internal/clearance"
	"shuttle-service/internal/lifecycle"
)

type Collector struct {
	reg *prometheus.Registry

	RefreshCycles   prometheus.Counter
	RefreshErrors   prometheus.Counter
	RefreshDuration prometheus.Histogram
	RefreshInterval prometheus.Gauge // seconds

	TripStates          *prometheus.GaugeVec // state label
	ReportableWorksites *prometheus.GaugeVec // shift label
	ClearWorksites      *prometheus.GaugeVec // shift label

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge
	PublishDuration prometheus.Histogram
}

func NewCollector(refreshInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		RefreshCycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_refresh_cycles_total",
			Help: "Total refresh cycles run.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_refresh_errors_total",
			Help: "Total refresh cycles that failed.",
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttle_refresh_duration_seconds",
			Help:    "Duration of a refresh cycle including the snapshot fetch.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		RefreshInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttle_refresh_interval_seconds",
			Help: "Refresh interval in seconds.",
		}),
		TripStates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shuttle_trips",
			Help: "Today's trips by derived lifecycle state.",
		}, []string{"state"}),
		ReportableWorksites: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shuttle_worksites_reportable",
			Help: "Worksites with at least one trip in the shift today.",
		}, []string{"shift"}),
		ClearWorksites: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "shuttle_worksites_clear",
			Help: "Worksites whose shift trips have all reached the milestone.",
		}, []string{"shift"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shuttle_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shuttle_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "shuttle_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
	}

	reg.MustRegister(
		c.RefreshCycles, c.RefreshErrors, c.RefreshDuration, c.RefreshInterval,
		c.TripStates, c.ReportableWorksites, c.ClearWorksites,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected, c.PublishDuration,
	)

	c.RefreshInterval.Set(refreshInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) ObserveRefresh(d time.Duration, err error) {
	c.RefreshCycles.Inc()
	c.RefreshDuration.Observe(d.Seconds())
	if err != nil {
		c.RefreshErrors.Inc()
	}
}

func (c *Collector) SetTripStates(counts map[lifecycle.State]int) {
	for _, st := range lifecycle.AllStates() {
		c.TripStates.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

func (c *Collector) SetClearance(shift clearance.Shift, results []clearance.Result) {
	cleared := 0
	for _, r := range results {
		if r.IsClear {
			cleared++
		}
	}
	c.ReportableWorksites.WithLabelValues(string(shift)).Set(float64(len(results)))
	c.ClearWorksites.WithLabelValues(string(shift)).Set(float64(cleared))
}

func (c *Collector) NATSPublishedInc()              { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc()             { c.NATSPublishErrs.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }
func (c *Collector) NATSSetConnected(b bool) {
	if b {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}
