// Package orchestrator fans out the tracker, bit→frame, and publishing
// tasks for one satellite pass, joins them under a structured-concurrency
// group, and publishes the job's lifecycle status as it progresses.
package orchestrator

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/astar-gs/groundstation/internal/antenna"
	"github.com/astar-gs/groundstation/internal/hdlc"
	"github.com/astar-gs/groundstation/internal/job"
	"github.com/astar-gs/groundstation/internal/metrics"
	"github.com/astar-gs/groundstation/internal/sampler"
	"github.com/astar-gs/groundstation/internal/telemetry"
	"github.com/astar-gs/groundstation/internal/tracker"
	"github.com/astar-gs/groundstation/internal/tuner"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// framesBufferSize models the "unbounded frame-payload channel" the
// design calls for with a generously sized buffer: the bit→frame task is
// the only producer and the publishing task is a fast consumer, so this
// is never expected to fill under normal operation.
const framesBufferSize = 4096

// defaultCadence is the tracking task's target tick interval.
const defaultCadence = time.Second

// Deps are the collaborators a pass is executed against. All fields are
// required except Cadence, which defaults to one second, and Metrics,
// which may be nil to record nothing.
type Deps struct {
	Propagator   tracker.Propagator
	Observer     tracker.Observer
	AntennaSink  antenna.Sink
	Tuner        tuner.Tuner
	SampleSource sampler.Source
	Broker       Publisher
	Metrics      *metrics.Metrics
	Logger       *log.Logger

	GroundStationID string
	Cadence         time.Duration
}

// Publisher is the narrow publish capability the orchestrator needs from
// the broker client: this keeps the per-pass tasks independent of which
// concrete MQTT client is wired in, the same way the antenna sink and
// tuner are narrow capabilities.
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// stopFlag is the single atomic stop signal shared by the per-pass tasks.
type stopFlag struct{ v atomic.Bool }

func (s *stopFlag) set()        { s.v.Store(true) }
func (s *stopFlag) isSet() bool { return s.v.Load() }

// withPanicRecovery wraps fn so a panic inside it ends the pass the same
// way any other task failure does: stop is set and the panic becomes a
// returned error, instead of crashing the daemon and every other job
// along with it.
func withPanicRecovery(label string, stop *stopFlag, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				stop.set()
				err = fmt.Errorf("orchestrator: %s task panicked: %v", label, r)
			}
		}()
		return fn()
	}
}

// Run executes one pass for j: publishes Started, builds a tracker and
// tunes the rig, spawns the tracking/bit-frame/publishing tasks, and
// publishes the terminal status once all three have joined.
func Run(ctx context.Context, j job.Job, deps Deps) error {
	cadence := deps.Cadence
	if cadence <= 0 {
		cadence = defaultCadence
	}

	publishStatus(deps, j.ID, job.Started)

	elements := tracker.Elements{Name: j.TLE.Name, Line1: j.TLE.Line1, Line2: j.TLE.Line2}
	trk := tracker.New(deps.Propagator, deps.Observer, elements)

	if err := deps.Tuner.Tune(ctx, tuner.Target{RxHz: j.RxFrequency, TxHz: j.TxFrequency}); err != nil {
		deps.Logger.Warn("tuner failed, continuing without rig retune", "job_id", j.ID, "err", err)
	}

	stop := &stopFlag{}
	frames := make(chan []byte, framesBufferSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(withPanicRecovery("tracking", stop, func() error {
		return trackingTask(gctx, trk, deps.AntennaSink, j.End, cadence, stop, deps.Logger)
	}))
	g.Go(withPanicRecovery("bit-frame", stop, func() error {
		defer close(frames)
		bitFrameTask(deps.SampleSource, stop, frames, deps.Metrics, j.SatelliteID)
		return nil
	}))
	g.Go(withPanicRecovery("publishing", stop, func() error {
		publishingTask(frames, deps.Broker, deps.Logger, deps.GroundStationID, j.SatelliteID)
		return nil
	}))

	err := g.Wait()
	stop.set()

	if err != nil {
		publishStatus(deps, j.ID, job.Error)
		if deps.Metrics != nil {
			deps.Metrics.JobsErrored.Inc()
		}
		return fmt.Errorf("orchestrator: pass for job %s: %w", j.ID, err)
	}

	publishStatus(deps, j.ID, job.Completed)
	if deps.Metrics != nil {
		deps.Metrics.JobsCompleted.Inc()
	}
	return nil
}

// trackingTask loops while UTC < los: compute the look angle, send it to
// the antenna sink, then wait for the next cadence tick. It sets stop
// when los is reached or returns an error (PassFatal) when the tracker
// itself fails.
func trackingTask(ctx context.Context, trk *tracker.Tracker, sink antenna.Sink, los time.Time, cadence time.Duration, stop *stopFlag, logger *log.Logger) error {
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		now := time.Now().UTC()
		if !now.Before(los) {
			stop.set()
			return nil
		}

		obs, err := trk.Track(now)
		if err != nil {
			stop.set()
			return fmt.Errorf("tracker failure: %w", err)
		}

		if err := sink.Send(ctx, obs.AzimuthDeg, obs.ElevationDeg); err != nil {
			logger.Warn("antenna send failed, continuing pass", "err", err)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			stop.set()
			return nil
		}
	}
}

// bitFrameTask constructs a deframer over source and forwards every
// non-empty decoded payload to out. It exits when stop is set or source
// is exhausted, both observed only at a frame boundary.
func bitFrameTask(source sampler.Source, stop *stopFlag, out chan<- []byte, m *metrics.Metrics, satelliteID string) {
	d := hdlc.New(source)
	if m != nil {
		d.OnDrop = func(reason string) { m.FramesDropped.WithLabelValues(reason).Inc() }
	}
	for {
		if stop.isSet() {
			return
		}
		frame, ok := d.Next()
		if !ok {
			return
		}
		if m != nil {
			m.FramesDecoded.WithLabelValues(satelliteID).Inc()
		}
		if len(frame.Payload) > 0 {
			out <- frame.Payload
		}
	}
}

// publishingTask wraps each payload received from in as a telemetry
// message and publishes it at least once, non-retained. It exits when in
// is closed by the bit→frame task.
func publishingTask(in <-chan []byte, client Publisher, logger *log.Logger, groundStationID, satelliteID string) {
	for payload := range in {
		msg := telemetry.Message{
			GroundStationID: groundStationID,
			TimestampUTC:    time.Now().UTC(),
			PayloadBytes:    payload,
		}
		body, err := msg.Marshal()
		if err != nil {
			logger.Error("failed to marshal telemetry message", "err", err)
			continue
		}
		if err := client.Publish(telemetry.Topic(satelliteID), false, body); err != nil {
			logger.Warn("telemetry publish failed, continuing pass", "err", err)
		}
	}
}

// publishStatus publishes s on the job's retained status topic, logging
// (but not failing the pass on) a publish error.
func publishStatus(deps Deps, jobID uuid.UUID, s job.Status) {
	msg := job.StatusMessage{Timestamp: time.Now().UTC(), Status: s}
	body, err := msg.Marshal()
	if err != nil {
		deps.Logger.Error("failed to marshal status message", "status", s, "err", err)
		return
	}
	if err := deps.Broker.Publish(job.StatusTopic(jobID), true, body); err != nil {
		deps.Logger.Warn("status publish failed", "status", s, "err", err)
	}
}
