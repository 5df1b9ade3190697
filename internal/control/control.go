// Package control is the ground station's control plane: an HTTP server
// for local job submission and liveness, plus the broker-side ingress
// that accepts jobs over MQTT. Both paths funnel into the same job
// channel the scheduler loop drains.
package control

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/astar-gs/groundstation/internal/broker"
	"github.com/astar-gs/groundstation/internal/job"
	"github.com/astar-gs/groundstation/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// jobQueueSize approximates the "unbounded Job channel" the design calls
// for: both ingresses are expected to submit at human/orbital cadence,
// never anywhere near this depth.
const jobQueueSize = 1024

const readHeaderTimeout = 3 * time.Second

// Publisher is the narrow publish capability the control plane needs
// from the broker client to emit job lifecycle statuses.
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// Subscriber is the narrow subscribe capability the control plane needs
// to receive job submissions over the broker.
type Subscriber interface {
	Subscribe(topic string, handler broker.Handler) error
}

// Server is the HTTP control surface: job submission and liveness.
type Server struct {
	httpServer   *http.Server
	jobsInFlight atomic.Int64
	lastError    atomic.Value // string

	jobs      chan job.Job
	publisher Publisher
	logger    *log.Logger
	metrics   *metrics.Metrics
}

// New builds a Server bound to addr. jobs is the shared channel the
// scheduler-feeder loop drains; both the HTTP and broker ingress paths
// submit to it.
func New(addr string, jobs chan job.Job, publisher Publisher, m *metrics.Metrics, logger *log.Logger) *Server {
	s := &Server{
		jobs:      jobs,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/", s.handleLiveness)
	r.POST("/jobs", s.handleCreateJob)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// NewJobQueue allocates the shared job channel both ingress paths submit
// to and the scheduler-feeder loop drains.
func NewJobQueue() chan job.Job {
	return make(chan job.Job, jobQueueSize)
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("control: listen on %s: %w", s.httpServer.Addr, err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// JobFinished marks one fewer job in flight, recording err (if non-nil)
// as the liveness endpoint's last error. Called once a pass's terminal
// status (Completed or Error) has been published.
func (s *Server) JobFinished(err error) {
	s.jobsInFlight.Add(-1)
	if err != nil {
		s.lastError.Store(err.Error())
	}
}

func (s *Server) handleLiveness(c *gin.Context) {
	body := gin.H{
		"status":         "ok",
		"message":        "Ground Station API is running",
		"jobs_in_flight": s.jobsInFlight.Load(),
	}
	if last, ok := s.lastError.Load().(string); ok && last != "" {
		body["last_error"] = last
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleCreateJob(c *gin.Context) {
	var j job.Job
	if err := c.ShouldBindJSON(&j); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Invalid job payload"})
		return
	}

	accepted, message := acceptJob(j, s.jobs, s.publisher, s.metrics, s.logger)
	if !accepted {
		s.lastError.Store(message)
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": message})
		return
	}

	s.jobsInFlight.Add(1)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SubscribeIngress wires a station's broker job-submission topic to the
// shared job channel: every inbound message is parsed, validated, and
// either accepted (publishing Received) or rejected with a log line and no
// status published.
func SubscribeIngress(stationID string, sub Subscriber, jobs chan job.Job, publisher Publisher, m *metrics.Metrics, logger *log.Logger) error {
	topic := job.IngressTopic(stationID)
	return sub.Subscribe(topic, func(payload []byte) {
		j, err := parseJob(payload)
		if err != nil {
			logger.Warn("broker ingress: malformed job payload", "err", err)
			return
		}
		if ok, message := acceptJob(j, jobs, publisher, m, logger); !ok {
			logger.Warn("broker ingress: job rejected", "job_id", j.ID, "reason", message)
		}
	})
}
