package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

var (
	ScanRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_expiry_scan_runs_total",
		Help: "Total number of expiry scans, by outcome",
	}, []string{"outcome"})
	RowsScanned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contract_expiry_rows_scanned_total",
		Help: "Total number of contract rows inspected",
	})
	MalformedDates = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "contract_expiry_malformed_dates_total",
		Help: "Total number of rows skipped because the expiry cell was not a date",
	})
	AlertsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_expiry_alerts_sent_total",
		Help: "Total number of alerts delivered to the transport",
	}, []string{"kind"})
	AlertsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_expiry_alerts_failed_total",
		Help: "Total number of alerts the transport rejected",
	}, []string{"kind"})
	SendAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "contract_expiry_send_attempts_total",
		Help: "Total number of transport send attempts, retries included",
	}, []string{"transport", "result"})
)

func init() {
	prometheus.MustRegister(ScanRuns)
	prometheus.MustRegister(RowsScanned)
	prometheus.MustRegister(MalformedDates)
	prometheus.MustRegister(AlertsSent)
	prometheus.MustRegister(AlertsFailed)
	prometheus.MustRegister(SendAttempts)
}

// Handler returns an http.Handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Server exposes /metrics on addr until Shutdown is called.
type Server struct {
	srv    *http.Server
	logger *logrus.Logger
}

func NewServer(addr string, logger *logrus.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() {
	go func() {
		s.logger.Infof("Metrics listener started on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("Metrics listener stopped unexpectedly")
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
