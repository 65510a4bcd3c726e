// Package metrics exports channel and sink counters to Prometheus.
//
//	c := metrics.NewCollector("myapp")
//	c.AddChannel(ch)
//	c.AddSink("console", console)
//	prometheus.MustRegister(c)
//	http.Handle("/metrics", promhttp.Handler())
//
// Counters are read at scrape time, so nothing is recorded on the logging
// path itself.
package metrics
