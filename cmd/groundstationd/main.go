// Command groundstationd is the ground station controller: it loads a
// station's configuration, wires the control plane, scheduler, and pass
// orchestrator together, and runs until signaled to stop.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/astar-gs/groundstation/internal/antenna"
	"github.com/astar-gs/groundstation/internal/broker"
	"github.com/astar-gs/groundstation/internal/config"
	"github.com/astar-gs/groundstation/internal/control"
	"github.com/astar-gs/groundstation/internal/job"
	"github.com/astar-gs/groundstation/internal/logging"
	"github.com/astar-gs/groundstation/internal/metrics"
	"github.com/astar-gs/groundstation/internal/orchestrator"
	"github.com/astar-gs/groundstation/internal/sampler"
	"github.com/astar-gs/groundstation/internal/scheduler"
	"github.com/astar-gs/groundstation/internal/tracker"
	"github.com/astar-gs/groundstation/internal/tuner"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/warthog618/go-gpiocdev"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.yaml", "Path to the station configuration file.")
	logLevel := pflag.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")
	logFormat := pflag.StringP("log-format", "f", "text", "Log format: text or json.")
	pflag.Parse()

	logger, err := logging.New(*logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "groundstationd: %v\n", err)
		os.Exit(1)
	}

	if err := run(*configPath, logger); err != nil {
		logger.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *log.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	brokerClient, err := broker.Connect(broker.Config{
		Host:           cfg.MQTT.Host,
		Port:           cfg.MQTT.Port,
		Transport:      cfg.MQTT.Transport,
		ClientID:       cfg.ClientID(),
		TimeoutSeconds: cfg.MQTT.TimeoutSeconds,
		Username:       mqttUsername(cfg),
		Password:       mqttPassword(cfg),
	})
	if err != nil {
		return fmt.Errorf("connect broker: %w", err)
	}
	defer brokerClient.Disconnect(250)

	jobs := control.NewJobQueue()
	controlServer := control.New(cfg.API.ListenAddress(), jobs, brokerClient, m, logger)

	if err := control.SubscribeIngress(cfg.GroundStation.ID, brokerClient, jobs, brokerClient, m, logger); err != nil {
		return fmt.Errorf("subscribe job ingress: %w", err)
	}

	antennaSink, closeAntenna, err := buildAntennaSink(cfg, logger)
	if err != nil {
		return fmt.Errorf("build antenna sink: %w", err)
	}
	if closeAntenna != nil {
		defer closeAntenna()
	}

	rigTuner, closeTuner, err := buildTuner(cfg)
	if err != nil {
		return fmt.Errorf("build tuner: %w", err)
	}
	if closeTuner != nil {
		defer closeTuner()
	}

	sampleSource, closeSampler, err := buildSampleSource(cfg)
	if err != nil {
		return fmt.Errorf("build sample source: %w", err)
	}
	if closeSampler != nil {
		defer closeSampler()
	}

	cadence := time.Duration(cfg.Tracking.CadenceSeconds * float64(time.Second))

	observer := tracker.Observer{
		LatitudeDeg:  cfg.GroundStation.Location.Latitude,
		LongitudeDeg: cfg.GroundStation.Location.Longitude,
		AltitudeM:    cfg.GroundStation.Location.Altitude,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("control plane listening", "addr", cfg.API.ListenAddress())
		if err := controlServer.ListenAndServe(); err != nil {
			logger.Error("control plane stopped", "err", err)
		}
	}()

	sched := scheduler.New()
	go feedScheduler(ctx, jobs, sched, brokerClient, m, logger)

	passDeps := orchestrator.Deps{
		Propagator:      tracker.Unconfigured{},
		Observer:        observer,
		AntennaSink:     antennaSink,
		Tuner:           rigTuner,
		SampleSource:    sampleSource,
		Broker:          brokerClient,
		Metrics:         m,
		Logger:          logger,
		GroundStationID: cfg.GroundStation.ID,
		Cadence:         cadence,
	}

	runLoop(ctx, sched, passDeps, controlServer, m, logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	return controlServer.Shutdown(shutdownCtx)
}

// feedScheduler drains the shared job queue, schedules each accepted job,
// and publishes Scheduled or (on TaskInPast) Error.
func feedScheduler(ctx context.Context, jobs <-chan job.Job, sched *scheduler.Scheduler, publisher control.Publisher, m *metrics.Metrics, logger *log.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := sched.Schedule(job.ToScheduledTask(j)); err != nil {
				logger.Warn("schedule rejected job", "job_id", j.ID, "err", err)
				publishStatus(publisher, logger, j.ID, job.Error)
				if m != nil {
					m.JobsErrored.Inc()
				}
				continue
			}
			publishStatus(publisher, logger, j.ID, job.Scheduled)
			if m != nil {
				m.JobsScheduled.Inc()
			}
		}
	}
}

// runLoop drains fired tasks from the scheduler, one pass at a time, until
// ctx is canceled.
func runLoop(ctx context.Context, sched *scheduler.Scheduler, deps orchestrator.Deps, controlServer *control.Server, m *metrics.Metrics, logger *log.Logger) {
	for {
		data, err := sched.Next(ctx)
		if err != nil {
			return
		}
		j, ok := data.(job.Job)
		if !ok {
			logger.Error("scheduler yielded unexpected payload type")
			continue
		}

		passErr := orchestrator.Run(ctx, j, deps)
		controlServer.JobFinished(passErr)
		if passErr != nil {
			logger.Warn("pass ended with error", "job_id", j.ID, "err", passErr)
		}
	}
}

func publishStatus(publisher control.Publisher, logger *log.Logger, jobID uuid.UUID, status job.Status) {
	msg := job.StatusMessage{Timestamp: time.Now().UTC(), Status: status}
	body, err := msg.Marshal()
	if err != nil {
		logger.Error("failed to marshal status message", "status", status, "err", err)
		return
	}
	if err := publisher.Publish(job.StatusTopic(jobID), true, body); err != nil {
		logger.Warn("status publish failed", "status", status, "err", err)
	}
}

func mqttUsername(cfg config.StationConfig) string {
	if cfg.MQTT.Auth == nil {
		return ""
	}
	return cfg.MQTT.Auth.Username
}

func mqttPassword(cfg config.StationConfig) string {
	if cfg.MQTT.Auth == nil {
		return ""
	}
	return cfg.MQTT.Auth.Password
}

func buildAntennaSink(cfg config.StationConfig, logger *log.Logger) (antenna.Sink, func(), error) {
	if cfg.Rotator.Device == "" {
		return antenna.NoOp{}, nil, nil
	}

	var limitSwitch *antenna.LimitSwitch
	var limitLine *gpiocdev.Line
	if cfg.Rotator.LimitSwitch != nil && cfg.Rotator.LimitSwitch.Chip != "" {
		sw, line, err := antenna.NewLimitSwitch(cfg.Rotator.LimitSwitch.Chip, cfg.Rotator.LimitSwitch.Offset, cfg.Rotator.LimitSwitch.ActiveLow)
		if err != nil {
			return nil, nil, err
		}
		limitSwitch = sw
		limitLine = line
	}

	var calibration antenna.Calibration
	if cfg.Rotator.CalibrationPath != "" {
		cal, err := antenna.LoadCalibration(cfg.Rotator.CalibrationPath)
		if err != nil {
			if limitLine != nil {
				limitLine.Close()
			}
			return nil, nil, err
		}
		calibration = cal
	}

	sink, err := antenna.OpenSerialSink(cfg.Rotator.Device, cfg.Rotator.BaudRate, calibration, limitSwitch)
	if err != nil {
		if limitLine != nil {
			limitLine.Close()
		}
		return nil, nil, err
	}
	return sink, func() {
		if err := sink.Close(); err != nil {
			logger.Warn("antenna sink close failed", "err", err)
		}
		if limitLine != nil {
			if err := limitLine.Close(); err != nil {
				logger.Warn("limit switch gpio line close failed", "err", err)
			}
		}
	}, nil
}

func buildTuner(cfg config.StationConfig) (tuner.Tuner, func(), error) {
	if cfg.Radio.Device == "" {
		return tuner.NoOp{}, nil, nil
	}
	t, err := tuner.NewHamlibTuner(cfg.Radio.HamlibModel, cfg.Radio.Device)
	if err != nil {
		return nil, nil, err
	}
	return t, func() { _ = t.Close() }, nil
}

func buildSampleSource(cfg config.StationConfig) (sampler.Source, func(), error) {
	if cfg.Audio.SampleRate == 0 {
		return &sampler.ClosedSource{}, nil, nil
	}
	src, err := sampler.OpenAudioSource(cfg.Audio.SampleRate, cfg.Audio.FramesPerBuffer, sampler.NullDemodulator{})
	if err != nil {
		return nil, nil, err
	}
	return src, func() { _ = src.Close() }, nil
}
