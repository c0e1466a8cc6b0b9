package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobeConfig holds configuration for the ffprobe-based prober.
type FFprobeConfig struct {
	// FFprobePath is the path to the ffprobe binary.
	// If empty, "ffprobe" will be used (assumes it's in PATH).
	FFprobePath string
}

// DefaultFFprobeConfig returns an FFprobeConfig with production-ready defaults.
func DefaultFFprobeConfig() FFprobeConfig {
	return FFprobeConfig{
		FFprobePath: "ffprobe",
	}
}

// FFprobeProber implements Prober using the ffprobe CLI.
type FFprobeProber struct {
	config FFprobeConfig
}

// Compile-time verification that FFprobeProber implements Prober.
var _ Prober = (*FFprobeProber)(nil)

// NewFFprobeProber creates a new ffprobe-based prober.
func NewFFprobeProber(cfg FFprobeConfig) *FFprobeProber {
	if cfg.FFprobePath == "" {
		cfg.FFprobePath = "ffprobe"
	}
	return &FFprobeProber{config: cfg}
}

// Probe runs ffprobe as a subprocess and parses the reported duration.
func (p *FFprobeProber) Probe(ctx context.Context, inputPath string) (*ProbeResult, error) {
	if err := p.validateInput(inputPath); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.config.FFprobePath, p.buildArgs(inputPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("probe cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffprobe execution failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	duration, err := parseDuration(stdout.String())
	if err != nil {
		return nil, err
	}
	return &ProbeResult{Duration: duration}, nil
}

// validateInput checks if the input file exists and is readable.
func (p *FFprobeProber) validateInput(inputPath string) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", inputPath)
		}
		return fmt.Errorf("failed to access input file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("input path is a directory, expected a file: %s", inputPath)
	}

	return nil
}

// buildArgs prints only the container duration, as a bare number.
func (p *FFprobeProber) buildArgs(inputPath string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		inputPath,
	}
}

func parseDuration(out string) (float64, error) {
	s := strings.TrimSpace(out)
	if s == "" || s == "N/A" {
		return 0, fmt.Errorf("ffprobe reported no duration")
	}

	d, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %v", d)
	}
	return d, nil
}
