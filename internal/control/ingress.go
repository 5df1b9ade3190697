package control

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/astar-gs/groundstation/internal/job"
	"github.com/astar-gs/groundstation/internal/metrics"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// parseJob decodes one broker ingress message as a Job.
func parseJob(payload []byte) (job.Job, error) {
	var j job.Job
	if err := json.Unmarshal(payload, &j); err != nil {
		return job.Job{}, fmt.Errorf("control: decode job: %w", err)
	}
	return j, nil
}

// acceptJob validates j and, on success, publishes Received and submits
// it to the shared queue. Ingress-validation failures are reported only
// synchronously through the caller's own response (HTTP body or broker
// log) — they are rejected before a job exists, so no status is
// published for them. It is shared by both the HTTP and broker ingress
// paths, which differ only in how they obtain the Job and report the
// outcome to their caller.
func acceptJob(j job.Job, jobs chan<- job.Job, publisher Publisher, m *metrics.Metrics, logger *log.Logger) (accepted bool, message string) {
	if err := j.Validate(time.Now()); err != nil {
		if errors.Is(err, job.ErrInvalidTLE) {
			return false, "Invalid TLE data"
		}
		return false, "Invalid job"
	}

	publishJobStatus(publisher, logger, j.ID, job.Received)
	if m != nil {
		m.JobsAccepted.Inc()
	}
	jobs <- j
	return true, "ok"
}

func publishJobStatus(publisher Publisher, logger *log.Logger, jobID uuid.UUID, status job.Status) {
	msg := job.StatusMessage{Timestamp: time.Now().UTC(), Status: status}
	body, err := msg.Marshal()
	if err != nil {
		logger.Error("control: failed to marshal status message", "status", status, "err", err)
		return
	}
	if err := publisher.Publish(job.StatusTopic(jobID), true, body); err != nil {
		logger.Warn("control: status publish failed", "status", status, "err", err)
	}
}
