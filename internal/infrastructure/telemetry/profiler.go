package telemetry

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// DefaultProfileTypes are collected when ProfilerConfig.ProfileTypes is empty
var DefaultProfileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
}

// ProfilerConfig configures Pyroscope continuous profiling
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
	Environment     string
	Version         string

	// Grafana Cloud credentials, optional
	BasicAuthUser     string
	BasicAuthPassword string

	ProfileTypes []pyroscope.ProfileType
	// MutexProfileFraction and BlockProfileRate apply only when the matching
	// profile types are requested. Zero means 5.
	MutexProfileFraction int
	BlockProfileRate     int
}

// Profiler owns a running Pyroscope session
type Profiler struct {
	session *pyroscope.Profiler
	logger  *zap.Logger

	mu      sync.Mutex
	stopped bool
}

// NewProfiler starts profiling when cfg.Enabled and returns an idle
// Profiler otherwise
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" || cfg.ApplicationName == "" {
		return nil, errors.New("profiler: server address and application name are required")
	}

	types := cfg.ProfileTypes
	if len(types) == 0 {
		types = DefaultProfileTypes
	}
	configureRuntimeProfiles(types, cfg.MutexProfileFraction, cfg.BlockProfileRate)

	session, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            pyroscopeLogger{logger.Named("pyroscope").Sugar()},
		Tags:              profileTags(cfg),
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}
	p.session = session

	logger.Info("Continuous profiling enabled",
		zap.String("server", cfg.ServerAddress),
		zap.Int("profile_types", len(types)))
	return p, nil
}

func configureRuntimeProfiles(types []pyroscope.ProfileType, mutexFraction, blockRate int) {
	for _, t := range types {
		switch t {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			runtime.SetMutexProfileFraction(orDefault(mutexFraction, 5))
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			runtime.SetBlockProfileRate(orDefault(blockRate, 5))
		}
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// profileTags are static labels on every profile of this process
func profileTags(cfg ProfilerConfig) map[string]string {
	tags := map[string]string{}
	if cfg.Environment != "" {
		tags["env"] = cfg.Environment
	}
	if cfg.Version != "" {
		tags["version"] = cfg.Version
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		tags["hostname"] = host
	}
	return tags
}

// IsEnabled reports whether a session is running
func (p *Profiler) IsEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil && !p.stopped
}

// Stop flushes and ends the session. Later calls are no-ops.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.session == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true
	if err := p.session.Stop(); err != nil {
		return fmt.Errorf("stop pyroscope: %w", err)
	}
	return nil
}

type pyroscopeLogger struct {
	*zap.SugaredLogger
}

func (l pyroscopeLogger) Infof(format string, args ...any)  { l.SugaredLogger.Infof(format, args...) }
func (l pyroscopeLogger) Debugf(format string, args ...any) { l.SugaredLogger.Debugf(format, args...) }
func (l pyroscopeLogger) Errorf(format string, args ...any) { l.SugaredLogger.Errorf(format, args...) }
