// ABOUTME: Settings loading with global + project config merge
// ABOUTME: YAML-based configuration via gopkg.in/yaml.v3; Defaults fills gaps, Validate rejects bad values

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Size probe policies applied when the cursor-report fallback fails.
const (
	SizeProbeFallback = "fallback"
	SizeProbeFatal    = "fatal"
)

// Settings holds the merged configuration.
type Settings struct {
	// Nonblocking makes the editor loop poll for input and redraw every tick.
	Nonblocking bool `yaml:"nonblocking,omitempty"`
	// FrameRate caps redraws per second in non-blocking mode.
	FrameRate int `yaml:"frame_rate,omitempty"`
	// EscapeTimeout is how long a lone ESC waits for the rest of a sequence.
	EscapeTimeout time.Duration `yaml:"escape_timeout,omitempty"`

	SizeProbe    string `yaml:"size_probe,omitempty"`
	FallbackRows int    `yaml:"fallback_rows,omitempty"`
	FallbackCols int    `yaml:"fallback_cols,omitempty"`

	LogFile  string `yaml:"log_file,omitempty"`
	LogLevel string `yaml:"log_level,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() *Settings {
	return &Settings{
		FrameRate:     30,
		EscapeTimeout: 50 * time.Millisecond,
		SizeProbe:     SizeProbeFallback,
		FallbackRows:  24,
		FallbackCols:  80,
		LogLevel:      "info",
	}
}

// fileSettings is one settings file as written. A nil field was not set
// in the file and leaves the value beneath it untouched.
type fileSettings struct {
	Nonblocking   *bool          `yaml:"nonblocking"`
	FrameRate     *int           `yaml:"frame_rate"`
	EscapeTimeout *time.Duration `yaml:"escape_timeout"`

	SizeProbe    *string `yaml:"size_probe"`
	FallbackRows *int    `yaml:"fallback_rows"`
	FallbackCols *int    `yaml:"fallback_cols"`

	LogFile  *string `yaml:"log_file"`
	LogLevel *string `yaml:"log_level"`
}

// Load reads and merges global and project-local settings over Defaults.
// Project settings override global settings.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(merge(Defaults(), global), project)
	ResolveEnvVars(merged)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return merged, nil
}

// LoadFile reads one explicit settings file over Defaults. Unlike Load, a
// missing file is an error.
func LoadFile(path string) (*Settings, error) {
	f, err := loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	merged := merge(Defaults(), f)
	ResolveEnvVars(merged)
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return merged, nil
}

// loadFile reads one YAML settings file. Returns an empty fileSettings if
// the file does not exist.
func loadFile(path string) (*fileSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &fileSettings{}, err
	}
	var f fileSettings
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// merge overlays the fields set in f onto base. Explicit zero values such
// as `nonblocking: false` or `escape_timeout: 0s` override base too.
func merge(base *Settings, f *fileSettings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if f == nil {
		return base
	}

	result := *base

	if f.Nonblocking != nil {
		result.Nonblocking = *f.Nonblocking
	}
	if f.FrameRate != nil {
		result.FrameRate = *f.FrameRate
	}
	if f.EscapeTimeout != nil {
		result.EscapeTimeout = *f.EscapeTimeout
	}
	if f.SizeProbe != nil {
		result.SizeProbe = *f.SizeProbe
	}
	if f.FallbackRows != nil {
		result.FallbackRows = *f.FallbackRows
	}
	if f.FallbackCols != nil {
		result.FallbackCols = *f.FallbackCols
	}
	if f.LogFile != nil {
		result.LogFile = *f.LogFile
	}
	if f.LogLevel != nil {
		result.LogLevel = *f.LogLevel
	}

	return &result
}

// Validate reports every out-of-range field.
func (s *Settings) Validate() error {
	var errs []error
	if s.FrameRate < 1 || s.FrameRate > 1000 {
		errs = append(errs, fmt.Errorf("frame_rate %d out of range [1, 1000]", s.FrameRate))
	}
	if s.EscapeTimeout < 0 || s.EscapeTimeout > time.Second {
		errs = append(errs, fmt.Errorf("escape_timeout %v out of range [0s, 1s]", s.EscapeTimeout))
	}
	if s.SizeProbe != SizeProbeFallback && s.SizeProbe != SizeProbeFatal {
		errs = append(errs, fmt.Errorf("size_probe %q must be %q or %q", s.SizeProbe, SizeProbeFallback, SizeProbeFatal))
	}
	if s.FallbackRows < 1 || s.FallbackCols < 1 {
		errs = append(errs, fmt.Errorf("fallback size %dx%d must be positive", s.FallbackRows, s.FallbackCols))
	}
	return errors.Join(errs...)
}

// FrameBudget is the minimum time between redraws in non-blocking mode.
func (s *Settings) FrameBudget() time.Duration {
	if s.FrameRate <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(s.FrameRate)
}
