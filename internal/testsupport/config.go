package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"locationmapper/internal/config"
)

// Template is a minimal YARRRML mapping carrying every placeholder token.
const Template = `prefixes:
  sosa: http://www.w3.org/ns/sosa/
  tm: https://w3id.org/transportmode#
mappings:
  trackpoint:
    sources:
      - [clean.xml~xpath, /gpx/trk/trkseg/trkpt]
    po:
      - [prov:wasAttributedTo, PERSONURL~iri]
      - [tm:transportMode, TRANSPORTMODE]
      - [sosa:isHostedBy, DEVICEURL~iri]
      - [sosa:madeBySensor, SENSORURL~iri]
      - [dct:isVersionOf, VERSIONURL~iri]
`

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The working directory holds the mapping template; options are applied
// afterwards.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkDir = filepath.Join(base, "work")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Logging.Level = "error"

	for _, dir := range []string{cfgVal.Paths.WorkDir, cfgVal.Paths.StateDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	WriteFile(t, cfgVal.WorkPath(cfgVal.Mapping.Template), Template)

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithHistoryDisabled turns off the run history database.
func WithHistoryDisabled() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithStopOnError makes the pipeline abort at the first failed stage.
func WithStopOnError() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.StopOnError = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkDir)
}

// WriteConfigFile stores cfg as TOML next to the temp directories and
// returns its path.
func WriteConfigFile(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(BaseDir(cfg), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
