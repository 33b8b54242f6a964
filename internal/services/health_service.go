package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"interviewcheck/internal/validation"
	"interviewcheck/pkg/contracts"
)

// HealthService provides health check functionality
type HealthService struct {
	info       contracts.VersionInfo
	outputDir  string
	rosterFile string
	candidates func() int
	validator  *validation.FileValidator
	startTime  time.Time
	logger     *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// NewHealthService creates a health service. candidates reports the size of
// the loaded roster; nil means no roster is loaded.
func NewHealthService(info contracts.VersionInfo, rosterFile, outputDir string, candidates func() int, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", info.Version),
		slog.String("build_time", info.BuildTime),
		slog.String("output_dir", outputDir))

	return &HealthService{
		info:       info,
		outputDir:  outputDir,
		rosterFile: rosterFile,
		candidates: candidates,
		validator:  validation.NewFileValidator(logger),
		startTime:  time.Now(),
		logger:     logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.info.Version,
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))

	return status
}

// ReadinessCheck reports whether the roster is loaded and results can be written
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.info.Version,
		Services: map[string]interface{}{
			"roster":  hs.checkRoster(),
			"storage": hs.checkStorage(),
		},
	}

	for _, service := range status.Services {
		if sh, ok := service.(ServiceHealth); ok && sh.Status != "ready" {
			status.Status = "not_ready"
			break
		}
	}

	if status.Status != "ready" {
		hs.logger.WarnContext(ctx, "ReadinessCheck: not ready", slog.Any("services", status.Services))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.info.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns the build information plus process uptime
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":       hs.info.Version,
		"build_time":    hs.info.BuildTime,
		"git_commit":    hs.info.GitCommit,
		"result_format": hs.info.ResultFormat,
		"go_version":    hs.info.GoVersion,
		"platform":      hs.info.Platform,
		"uptime":        time.Since(hs.startTime).Seconds(),
		"start_time":    hs.startTime.Format(time.RFC3339),
	}
}

func (hs *HealthService) checkRoster() ServiceHealth {
	if hs.candidates == nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: "roster not loaded",
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: fmt.Sprintf("%d candidates from %s", hs.candidates(), hs.rosterFile),
		Uptime:  time.Since(hs.startTime).String(),
	}
}

func (hs *HealthService) checkStorage() ServiceHealth {
	if err := hs.validator.ValidateOutputDirectory(hs.outputDir); err != nil {
		return ServiceHealth{
			Status:  "not_ready",
			Message: err.Error(),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "output directory is writable",
	}
}
