package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"locationmapper/internal/config"
	"locationmapper/internal/logging"
	"locationmapper/internal/runner"
	"locationmapper/internal/yarrrml"
)

// LDESSkipNotice is printed when the event-stream stage lacks its inputs.
const LDESSkipNotice = "Skipping EventSource step because arguments weren't set, required arguments for this step: [--LDESinSolidURL, --timestamppath]"

// noneArg is what the helper scripts receive for an absent optional path.
const noneArg = "None"

// MappingOptions are the flags shared by the subcommands that map a GPX track to RDF.
type MappingOptions struct {
	Input         string
	VersionID     string
	RMLMapper     string
	PersonURL     string
	TransportMode string
	// TransportModeSet is true when -t was given, even with an empty value.
	TransportModeSet bool
	Device           string
	Sensor           string
	YarrrmlPath      string
}

func (o MappingOptions) values() yarrrml.Values {
	return yarrrml.Values{
		PersonURL:        o.PersonURL,
		TransportMode:    o.TransportMode,
		TransportModeSet: o.TransportModeSet,
		DeviceURL:        o.Device,
		SensorURL:        o.Sensor,
		VersionURL:       o.VersionID,
	}
}

// GPXOptions configures the gpx subcommand.
type GPXOptions struct {
	MappingOptions
	Authenticated  string
	Amount         string
	TimestampPath  string
	LDESinSolidURL string

	BucketSize         string
	TargetResourceSize string
	PrefixFile         string
	VersionOfPath      string
}

// ContainerOptions configures the container subcommand.
type ContainerOptions struct {
	RootURL   string
	OutputURL string
	VersionID string
	TreePath  string
	AuthFile  string
	LogLevel  string
}

// GPXPlan maps a GPX track to RDF and, when a target container and timestamp
// path are given, publishes it as a versioned LDES in LDP.
func GPXPlan(cfg *config.Config, opts GPXOptions, logger *slog.Logger) Plan {
	stages := mappingStages(cfg, opts.MappingOptions)

	ldesURL := strings.TrimSpace(opts.LDESinSolidURL)
	timestampPath := strings.TrimSpace(opts.TimestampPath)
	if ldesURL == "" || timestampPath == "" {
		stages = append(stages, Stage{Name: "ldes", Label: "LDES", SkipNotice: LDESSkipNotice})
	} else {
		if !strings.HasSuffix(ldesURL, "/") {
			ldesURL += "/"
		}
		args := []string{
			"ts-node", cfg.Tools.EventSourceScript,
			cfg.Mapping.RDFOutput,
			ldesURL,
			opts.VersionID,
			orNaN(opts.Amount),
			orNone(opts.Authenticated),
			timestampPath,
		}
		args = append(args, publisherExtras(opts)...)
		stages = append(stages, Stage{
			Name:    "ldes",
			Label:   "LDES",
			Command: runner.Command{Binary: cfg.Tools.Npx, Args: args, Dir: cfg.Paths.WorkDir},
		})
	}

	return Plan{
		Name:      "gpx",
		Stages:    stages,
		Timed:     true,
		Setup:     MappingSetup(cfg, opts.MappingOptions, logger),
		TempFiles: cfg.TempFiles(),
	}
}

// GPXToCSSPlan maps a GPX track to RDF and uploads the result to a Community
// Solid Server container.
func GPXToCSSPlan(cfg *config.Config, opts MappingOptions, outputURL string, logger *slog.Logger) Plan {
	stages := mappingStages(cfg, opts)
	stages = append(stages, cssStage(cfg, cfg.Mapping.RDFOutput, outputURL))
	return Plan{
		Name:      "gpxToCss",
		Stages:    stages,
		Setup:     MappingSetup(cfg, opts, logger),
		TempFiles: cfg.TempFiles(),
	}
}

// ContainerPlan reorganises an existing Solid container into an LDES in LDP.
func ContainerPlan(cfg *config.Config, opts ContainerOptions) Plan {
	logLevel := opts.LogLevel
	if strings.TrimSpace(logLevel) == "" {
		logLevel = "info"
	}
	args := []string{
		"ts-node", cfg.Tools.ContainerScript,
		"-r", opts.RootURL,
		"-o", opts.OutputURL,
		"-V", opts.VersionID,
		"-t", opts.TreePath,
		"-a", orNone(opts.AuthFile),
		"-l", logLevel,
	}
	return Plan{
		Name: "container",
		Stages: []Stage{{
			Name:    "container",
			Label:   "Container to LDES",
			Command: runner.Command{Binary: cfg.Tools.Npx, Args: args, Dir: cfg.Paths.WorkDir},
		}},
	}
}

// CSSPlan uploads an RDF file to a Community Solid Server container.
func CSSPlan(cfg *config.Config, inputFile, outputURL string) Plan {
	return Plan{Name: "css", Stages: []Stage{cssStage(cfg, inputFile, outputURL)}}
}

// LinestringPlan prints the WKT LINESTRING of the points in an LDES file.
func LinestringPlan(cfg *config.Config, inputFile string) Plan {
	return Plan{
		Name: "linestr",
		Stages: []Stage{{
			Name:    "linestring",
			Label:   "Linestring",
			Command: runner.Command{Binary: cfg.Tools.Npx, Args: []string{"ts-node", cfg.Tools.LinestringScript, inputFile}, Dir: cfg.Paths.WorkDir},
		}},
	}
}

// LoginPlan runs the interactive helper that stores Solid client credentials
// for later --authenticated and --authfile use.
func LoginPlan(cfg *config.Config) Plan {
	return Plan{
		Name: "login",
		Stages: []Stage{{
			Name:  "login",
			Label: "Login",
			Command: runner.Command{
				Binary:      cfg.Tools.Npx,
				Args:        []string{"ts-node", cfg.Tools.LoginScript},
				Dir:         cfg.Paths.WorkDir,
				Interactive: true,
			},
		}},
	}
}

var (
	eventMappingUnresolved = logging.Event{
		Type:   "mapping_unresolved",
		Hint:   "a substituted value contains a placeholder token, or the template uses a different transport-mode line",
		Impact: "the RDF output will contain literal placeholder text",
	}
	eventMappingSyntax = logging.Event{
		Type:   "mapping_syntax",
		Hint:   "check the substituted URLs for YAML syntax characters",
		Impact: "yarrrml-parser will likely reject the mapping",
	}
)

// MappingSetup returns the Setup step that renders the YARRRML template.
// Leftover placeholders and YAML syntax problems are reported as warnings;
// they do not stop the run.
func MappingSetup(cfg *config.Config, opts MappingOptions, logger *slog.Logger) func() error {
	logger = logging.NewComponentLogger(logger, "mapping")
	return func() error {
		templatePath := opts.YarrrmlPath
		if strings.TrimSpace(templatePath) == "" {
			templatePath = cfg.Mapping.Template
		}
		templatePath = cfg.WorkPath(templatePath)
		generated := cfg.WorkPath(cfg.Mapping.Generated)
		if filepath.Clean(templatePath) == filepath.Clean(generated) {
			return fmt.Errorf("mapping template %s is also the generated mapping path; rendering would overwrite it", templatePath)
		}

		rendered, err := yarrrml.Generate(templatePath, generated, opts.values())
		if err != nil {
			return err
		}
		logger.Debug("mapping generated",
			logging.String("template", templatePath),
			logging.String("output", generated),
			logging.Bool("transport_mode_set", opts.TransportModeSet),
		)
		if left := yarrrml.Unresolved(rendered); len(left) > 0 {
			logging.Warn(logger, eventMappingUnresolved, "placeholders left in generated mapping",
				logging.Strings("placeholders", left),
			)
		}
		if err := yarrrml.CheckSyntax([]byte(rendered)); err != nil {
			logging.Warn(logger, eventMappingSyntax, "generated mapping failed YAML check",
				logging.Error(err),
			)
		}
		return nil
	}
}

func mappingStages(cfg *config.Config, opts MappingOptions) []Stage {
	rmlmapper := opts.RMLMapper
	if strings.TrimSpace(rmlmapper) == "" {
		rmlmapper = cfg.Tools.RMLMapperJar
	}
	return []Stage{
		{
			Name:  "clean",
			Label: "Cleaning",
			Command: runner.Command{
				Binary: cfg.Tools.Node,
				Args:   []string{cfg.Tools.CleanScript, opts.Input, cfg.Mapping.CleanedInput},
				Dir:    cfg.Paths.WorkDir,
			},
		},
		{
			Name:  "yarrrml",
			Label: "Yarrrml parsing",
			Command: runner.Command{
				Binary: cfg.Tools.Npx,
				Args:   []string{cfg.Tools.YarrrmlParser, "-i", cfg.Mapping.Generated, "-o", cfg.Mapping.RMLOutput, "-p"},
				Dir:    cfg.Paths.WorkDir,
			},
		},
		{
			Name:  "rmlmapper",
			Label: "RMLMapping",
			Command: runner.Command{
				Binary: cfg.Tools.Java,
				Args:   []string{"-jar", rmlmapper, "-m", cfg.Mapping.RMLOutput, "-o", cfg.Mapping.RDFOutput},
				Dir:    cfg.Paths.WorkDir,
			},
		},
	}
}

func cssStage(cfg *config.Config, inputFile, outputURL string) Stage {
	return Stage{
		Name:  "css",
		Label: "CSS upload",
		Command: runner.Command{
			Binary: cfg.Tools.Npx,
			Args:   []string{"ts-node", cfg.Tools.CSSScript, inputFile, outputURL},
			Dir:    cfg.Paths.WorkDir,
		},
	}
}

// publisherExtras returns the optional positional arguments of the event
// source script. Positions before the last supplied value are padded with the
// values the script treats as "use the default".
func publisherExtras(opts GPXOptions) []string {
	extras := []string{
		orNaN(opts.BucketSize),
		orNaN(opts.TargetResourceSize),
		orNone(opts.PrefixFile),
		strings.TrimSpace(opts.VersionOfPath),
	}
	supplied := []string{opts.BucketSize, opts.TargetResourceSize, opts.PrefixFile, opts.VersionOfPath}
	last := -1
	for i, v := range supplied {
		if strings.TrimSpace(v) != "" {
			last = i
		}
	}
	return extras[:last+1]
}

func orNone(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return noneArg
	}
	return value
}

func orNaN(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "NaN"
	}
	return value
}
