// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the handlers and services record against.
type Recorder interface {
	RecordRegistration(status string)
	RecordVerification(outcome string)
	RecordAttendanceEvent(kind string)
	RecordHTTPStatus(statusCode int)
	RecordRecognitionLatency(op string, duration time.Duration)
}

// Collector implements Recorder backed by Prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	registrations      *prometheus.CounterVec
	verifications      *prometheus.CounterVec
	attendanceEvents   *prometheus.CounterVec
	httpStatus         *prometheus.CounterVec
	recognitionLatency *prometheus.HistogramVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_attendance_registrations_total",
			Help: "Registrations by resulting identity status",
		}, []string{"status"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_attendance_verifications_total",
			Help: "Verification attempts by outcome (match, no_match, error)",
		}, []string{"outcome"}),
		attendanceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_attendance_events_total",
			Help: "Attendance events recorded by kind",
		}, []string{"kind"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "face_attendance_http_status_total",
			Help: "HTTP responses by status code",
		}, []string{"status_code"}),
		recognitionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "face_attendance_recognition_latency_seconds",
			Help:    "Latency of recognition service calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}

	c.registry.MustRegister(
		c.registrations,
		c.verifications,
		c.attendanceEvents,
		c.httpStatus,
		c.recognitionLatency,
	)

	return c
}

// RecordRegistration counts a completed registration by identity status.
func (c *Collector) RecordRegistration(status string) {
	c.registrations.WithLabelValues(status).Inc()
}

// RecordVerification counts a verification attempt by outcome.
func (c *Collector) RecordVerification(outcome string) {
	c.verifications.WithLabelValues(outcome).Inc()
}

// RecordAttendanceEvent counts a recorded attendance event by kind.
func (c *Collector) RecordAttendanceEvent(kind string) {
	c.attendanceEvents.WithLabelValues(kind).Inc()
}

// RecordHTTPStatus counts an HTTP response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRecognitionLatency observes the duration of a recognition call.
func (c *Collector) RecordRecognitionLatency(op string, duration time.Duration) {
	c.recognitionLatency.WithLabelValues(op).Observe(duration.Seconds())
}

// Handler returns the HTTP handler exposing the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Noop is a Recorder that discards all observations. Used in tests.
type Noop struct{}

func (Noop) RecordRegistration(string)                      {}
func (Noop) RecordVerification(string)                      {}
func (Noop) RecordAttendanceEvent(string)                   {}
func (Noop) RecordHTTPStatus(int)                           {}
func (Noop) RecordRecognitionLatency(string, time.Duration) {}
