package main

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"locationmapper/internal/config"
	"locationmapper/internal/pipeline"
)

const (
	defaultTimestampPath = "http://www.w3.org/ns/sosa/resultTime"
	defaultRMLMapperJar  = "RML/rmlmapper-5.0.0-r362-all.jar"
	defaultTemplatePath  = "RML/track_points.yaml"
)

// bindMappingFlags registers the flags shared by gpx and gpxToCss.
func bindMappingFlags(flags *pflag.FlagSet, opts *pipeline.MappingOptions) {
	flags.StringVarP(&opts.Input, "input", "i", "", "GPX file to map")
	flags.StringVarP(&opts.VersionID, "versionId", "V", "", "URL of the entity the track is a version of")
	flags.StringVarP(&opts.RMLMapper, "rmlmapper", "r", defaultRMLMapperJar, "Path to the RMLMapper jar")
	flags.StringVarP(&opts.PersonURL, "person-url", "u", "", "WebID of the person that recorded the track")
	flags.StringVarP(&opts.TransportMode, "transport-mode", "t", "", "Transport mode IRI, omitted from the mapping when unset")
	flags.StringVarP(&opts.Device, "device", "d", "", "URL of the recording device")
	flags.StringVarP(&opts.Sensor, "sensor", "s", "", "URL of the GPS sensor")
	flags.StringVarP(&opts.YarrrmlPath, "yarrrmlpath", "y", defaultTemplatePath, "YARRRML template with placeholder tokens")
}

func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}

// applyMappingDefaults replaces untouched path flags with the configured values
// and records whether -t was given at all.
func applyMappingDefaults(cmd *cobra.Command, cfg *config.Config, opts pipeline.MappingOptions) pipeline.MappingOptions {
	if !cmd.Flags().Changed("rmlmapper") {
		opts.RMLMapper = cfg.Tools.RMLMapperJar
	}
	if !cmd.Flags().Changed("yarrrmlpath") {
		opts.YarrrmlPath = cfg.Mapping.Template
	}
	opts.TransportModeSet = cmd.Flags().Changed("transport-mode")
	return opts
}

func newGPXCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.GPXOptions

	cmd := &cobra.Command{
		Use:   "gpx",
		Short: "Map a GPX track to RDF and optionally publish it as an LDES in a Solid pod",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, ctx, func(cfg *config.Config, logger *slog.Logger) pipeline.Plan {
				resolved := opts
				resolved.MappingOptions = applyMappingDefaults(cmd, cfg, opts.MappingOptions)
				if !cmd.Flags().Changed("timestamppath") {
					resolved.TimestampPath = cfg.Pipeline.TimestampPath
				}
				return pipeline.GPXPlan(cfg, resolved, logger)
			})
		},
	}

	flags := cmd.Flags()
	bindMappingFlags(flags, &opts.MappingOptions)
	flags.StringVar(&opts.Authenticated, "authenticated", "", "Solid client credentials file used to publish")
	flags.StringVarP(&opts.Amount, "amount", "a", "NaN", "Number of points to publish (NaN publishes all)")
	flags.StringVar(&opts.TimestampPath, "timestamppath", defaultTimestampPath, "Predicate holding each member's timestamp")
	flags.StringVarP(&opts.LDESinSolidURL, "LDESinSolidURL", "l", "", "Container of the LDES in LDP to publish to")
	flags.StringVar(&opts.BucketSize, "bucket-size", "", "Members per LDES bucket")
	flags.StringVar(&opts.TargetResourceSize, "target-resource-size", "", "Target size of each LDES resource")
	flags.StringVar(&opts.PrefixFile, "prefix-file", "", "Turtle prefix file used when serialising members")
	flags.StringVar(&opts.VersionOfPath, "version-of-path", "", "Predicate linking members to the versioned entity")
	markRequired(cmd, "input", "versionId", "person-url", "device", "sensor")

	return cmd
}

func newGPXToCSSCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.MappingOptions
	var outputURL string

	cmd := &cobra.Command{
		Use:   "gpxToCss",
		Short: "Map a GPX track to RDF and upload it to a Community Solid Server container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, ctx, func(cfg *config.Config, logger *slog.Logger) pipeline.Plan {
				return pipeline.GPXToCSSPlan(cfg, applyMappingDefaults(cmd, cfg, opts), outputURL, logger)
			})
		},
	}

	flags := cmd.Flags()
	bindMappingFlags(flags, &opts)
	flags.StringVarP(&outputURL, "outputurl", "o", "", "Container URL to upload to")
	markRequired(cmd, "input", "outputurl", "versionId", "person-url", "device", "sensor")

	return cmd
}

func newContainerCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.ContainerOptions

	cmd := &cobra.Command{
		Use:   "container",
		Short: "Reorganise an existing Solid container into an LDES in LDP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, ctx, func(cfg *config.Config, _ *slog.Logger) pipeline.Plan {
				return pipeline.ContainerPlan(cfg, opts)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.RootURL, "rooturl", "r", "", "Container holding the existing resources")
	flags.StringVarP(&opts.OutputURL, "outputurl", "o", "", "Container of the LDES in LDP to create")
	flags.StringVarP(&opts.VersionID, "versionId", "V", "", "URL of the entity the members are versions of")
	flags.StringVarP(&opts.TreePath, "treePath", "t", defaultTimestampPath, "Predicate used to fragment the stream")
	flags.StringVarP(&opts.AuthFile, "authfile", "a", "", "Solid client credentials file")
	flags.StringVarP(&opts.LogLevel, "loglevel", "l", "info", "Log level passed to the container script")
	markRequired(cmd, "rooturl", "outputurl", "versionId")

	return cmd
}

func newCSSCommand(ctx *commandContext) *cobra.Command {
	var inputFile, outputURL string

	cmd := &cobra.Command{
		Use:   "css",
		Short: "Upload a Turtle file to a Community Solid Server container",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, ctx, func(cfg *config.Config, _ *slog.Logger) pipeline.Plan {
				return pipeline.CSSPlan(cfg, inputFile, outputURL)
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "inputfile", "i", "", "Turtle file to upload")
	cmd.Flags().StringVarP(&outputURL, "outputurl", "o", "", "Container URL to upload to")
	markRequired(cmd, "inputfile", "outputurl")

	return cmd
}

func newLinestrCommand(ctx *commandContext) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "linestr",
		Short: "Print the WKT LINESTRING of the points in an LDES Turtle file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, ctx, func(cfg *config.Config, _ *slog.Logger) pipeline.Plan {
				return pipeline.LinestringPlan(cfg, inputFile)
			})
		},
	}

	cmd.Flags().StringVarP(&inputFile, "inputfile", "i", "", "LDES Turtle file")
	markRequired(cmd, "inputfile")

	return cmd
}

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Create a Solid client credentials file for --authenticated and --authfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, ctx, func(cfg *config.Config, _ *slog.Logger) pipeline.Plan {
				return pipeline.LoginPlan(cfg)
			})
		},
	}
}
