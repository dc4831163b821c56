package server

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/puzpuzpuz/xsync/v3"
)

// serverMetrics holds the HTTP instruments of one server. A private metrics.Set keeps
// several servers in one process (tests) from sharing counters.
type serverMetrics struct {
	set      *metrics.Set
	inFlight *xsync.Counter
}

func newServerMetrics() *serverMetrics {
	m := &serverMetrics{
		set:      metrics.NewSet(),
		inFlight: xsync.NewCounter(),
	}
	m.set.NewGauge("kvapp_http_requests_in_flight", func() float64 {
		return float64(m.inFlight.Value())
	})
	return m
}

// begin marks a request as in flight and returns the function ending it
func (m *serverMetrics) begin() func() {
	m.inFlight.Inc()
	return m.inFlight.Dec
}

// observe records a finished request
func (m *serverMetrics) observe(route string, code int, start time.Time) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`kvapp_http_requests_total{route=%q,code="%d"}`, route, code)).Inc()
	m.set.GetOrCreateHistogram(fmt.Sprintf(`kvapp_http_request_duration_seconds{route=%q}`, route)).UpdateDuration(start)
}

// write renders all instruments in Prometheus text format
func (m *serverMetrics) write(w io.Writer) {
	m.set.WritePrometheus(w)
}
