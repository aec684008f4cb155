package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// WorkDir is where the helper scripts live and where external tools run.
	// Relative mapping paths and relative flag values resolve against it.
	WorkDir  string `toml:"work_dir"`
	StateDir string `toml:"state_dir"`
}

// Tools names the external programs and helper scripts the pipelines invoke.
type Tools struct {
	Node              string `toml:"node"`
	Npx               string `toml:"npx"`
	Java              string `toml:"java"`
	CleanScript       string `toml:"clean_script"`
	YarrrmlParser     string `toml:"yarrrml_parser"`
	EventSourceScript string `toml:"event_source_script"`
	ContainerScript   string `toml:"container_script"`
	CSSScript         string `toml:"css_script"`
	LinestringScript  string `toml:"linestring_script"`
	LoginScript       string `toml:"login_script"`
	RMLMapperJar      string `toml:"rmlmapper_jar"`
}

// Mapping contains the file names used while turning a track into RDF.
type Mapping struct {
	Template     string `toml:"template"`
	Generated    string `toml:"generated"`
	RMLOutput    string `toml:"rml_output"`
	CleanedInput string `toml:"cleaned_input"`
	RDFOutput    string `toml:"rdf_output"`
}

// Pipeline controls how stage failures and timing are handled.
type Pipeline struct {
	// StopOnError aborts the remaining stages after a failed one. The default
	// keeps going, matching how the helper scripts have always been chained.
	StopOnError         bool   `toml:"stop_on_error"`
	StageTimeoutSeconds int    `toml:"stage_timeout_seconds"`
	TimestampPath       string `toml:"timestamp_path"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for locationmapper.
//
// Configuration sections:
//   - Paths: working and state directories
//   - Tools: external binaries and helper scripts
//   - Mapping: template and intermediate file names
//   - Pipeline: failure handling and stage timeouts
//   - History: run history database
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tools    Tools    `toml:"tools"`
	Mapping  Mapping  `toml:"mapping"`
	Pipeline Pipeline `toml:"pipeline"`
	History  History  `toml:"history"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/locationmapper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("locationmapper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory. The working directory must
// already exist because it holds the helper scripts.
func (c *Config) EnsureDirectories() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

// WorkPath resolves a path relative to the working directory. Absolute paths
// are returned unchanged.
func (c *Config) WorkPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.WorkDir, p)
}

// HistoryPath returns the location of the run history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// LockPath returns the lock file guarding the shared intermediate files.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.WorkDir, ".locationmapper.lock")
}

// TempFiles lists the intermediate artifacts removed after a mapping run.
func (c *Config) TempFiles() []string {
	return []string{c.WorkPath(c.Mapping.CleanedInput), c.WorkPath(c.Mapping.Generated)}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

var workDirLine = regexp.MustCompile(`(?m)^work_dir = .*$`)

// CreateSample writes the commented sample configuration to path. A non-empty
// workDir replaces the sample's paths.work_dir.
func CreateSample(path, workDir string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	content := sampleConfig
	if workDir = strings.TrimSpace(workDir); workDir != "" {
		content = workDirLine.ReplaceAllLiteralString(content, "work_dir = "+strconv.Quote(workDir))
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
