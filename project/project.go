// Package project loads the cascade.yaml file that describes a policy
// project: where its sources live and how the tools should run.
package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project file looked up by Discover.
const FileName = "cascade.yaml"

// DefaultExtension is the file extension of policy sources.
const DefaultExtension = ".cas"

const defaultDebounce = 100 * time.Millisecond

// ErrInvalidConfig is matched by every validation failure.
var ErrInvalidConfig = errors.New("invalid project configuration")

var log = commonlog.GetLogger("cascade.project")

// Config mirrors cascade.yaml.
type Config struct {
	Name       string        `yaml:"name"`
	Sources    []string      `yaml:"sources"`
	Extensions []string      `yaml:"extensions"`
	Workers    int           `yaml:"workers"`
	Log        LogConfig     `yaml:"log"`
	Watch      WatchConfig   `yaml:"watch"`
	Metrics    MetricsConfig `yaml:"metrics"`
}

type LogConfig struct {
	// Verbosity follows commonlog: 0 is notice, 1 info, 2 debug and
	// negative values are quieter.
	Verbosity int    `yaml:"verbosity"`
	File      string `yaml:"file"`
}

type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

type MetricsConfig struct {
	// Address serves Prometheus metrics when not empty.
	Address string `yaml:"address"`
}

// Project is a loaded configuration anchored at a directory.
type Project struct {
	RootDir string
	// ConfigFile is empty when the project uses defaults only.
	ConfigFile string
	Config
}

// Load reads the project file at path. Relative source directories are
// resolved against the directory containing it.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse project file %q: %w", path, err)
	}

	rootDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}
	return finish(&Project{RootDir: rootDir, ConfigFile: path, Config: cfg})
}

// Discover looks for cascade.yaml in dir and its parents. Without one,
// the project is dir itself with default settings.
func Discover(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", dir, err)
	}
	for d := abs; ; {
		candidate := filepath.Join(d, FileName)
		if _, err := os.Stat(candidate); err == nil {
			log.Debugf("using project file %s", candidate)
			return Load(candidate)
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	log.Debugf("no %s found above %s, using defaults", FileName, abs)
	return finish(&Project{RootDir: abs})
}

func finish(p *Project) (*Project, error) {
	if p.Name == "" {
		p.Name = filepath.Base(p.RootDir)
	}
	ApplyDefaults(&p.Config)
	if err := applyEnvOverrides(&p.Config); err != nil {
		return nil, err
	}
	if err := Validate(&p.Config); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) {
	if len(cfg.Sources) == 0 {
		cfg.Sources = []string{"."}
	}
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = []string{DefaultExtension}
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = defaultDebounce
	}
}

// applyEnvOverrides lets CASCADE_* variables take precedence over the
// file.
func applyEnvOverrides(cfg *Config) error {
	if val := os.Getenv("CASCADE_SOURCES"); val != "" {
		cfg.Sources = splitList(val)
	}
	if val := os.Getenv("CASCADE_WORKERS"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: CASCADE_WORKERS: %v", ErrInvalidConfig, err)
		}
		cfg.Workers = n
	}
	if val := os.Getenv("CASCADE_LOG_VERBOSITY"); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%w: CASCADE_LOG_VERBOSITY: %v", ErrInvalidConfig, err)
		}
		cfg.Log.Verbosity = n
	}
	if val := os.Getenv("CASCADE_METRICS_ADDRESS"); val != "" {
		cfg.Metrics.Address = val
	}
	return nil
}

func splitList(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// FieldError is a validation failure for one field of the file.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every FieldError found by Validate.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// Validate checks a configuration after defaults were applied.
func Validate(cfg *Config) error {
	var errs []FieldError
	if len(cfg.Sources) == 0 {
		errs = append(errs, FieldError{"sources", "at least one source directory is required"})
	}
	for i, src := range cfg.Sources {
		if strings.TrimSpace(src) == "" {
			errs = append(errs, FieldError{fmt.Sprintf("sources[%d]", i), "must not be empty"})
		}
	}
	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			errs = append(errs, FieldError{fmt.Sprintf("extensions[%d]", i), fmt.Sprintf("%q must start with a dot", ext)})
		}
	}
	if cfg.Workers < 1 {
		errs = append(errs, FieldError{"workers", "must be at least 1"})
	}
	if cfg.Log.Verbosity < -4 {
		errs = append(errs, FieldError{"log.verbosity", "must be -4 or higher"})
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, FieldError{"watch.debounce", "must not be negative"})
	}
	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// SourceDirs returns the absolute source directories.
func (p *Project) SourceDirs() []string {
	dirs := make([]string, len(p.Sources))
	for i, src := range p.Sources {
		if filepath.IsAbs(src) {
			dirs[i] = filepath.Clean(src)
		} else {
			dirs[i] = filepath.Join(p.RootDir, src)
		}
	}
	return dirs
}

// IsSource reports whether path has one of the configured extensions.
func (p *Project) IsSource(path string) bool {
	return slices.Contains(p.Extensions, filepath.Ext(path))
}

// SourceFiles lists every source file below the source directories,
// sorted and without duplicates. Hidden directories are skipped.
func (p *Project) SourceFiles() ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, dir := range p.SourceDirs() {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if p.IsSource(path) && !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan source directory %q: %w", dir, err)
		}
	}
	slices.Sort(files)
	return files, nil
}
