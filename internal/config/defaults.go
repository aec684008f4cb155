package config

const (
	defaultWorkDir           = "."
	defaultStateDir          = "~/.local/share/locationmapper"
	defaultNode              = "node"
	defaultNpx               = "npx"
	defaultJava              = "java"
	defaultCleanScript       = "clean/CleanGpx.js"
	defaultYarrrmlParser     = "yarrrml-parser"
	defaultEventSourceScript = "EventSource/index.ts"
	defaultContainerScript   = "EventSource/containterToLil.ts"
	defaultCSSScript         = "CSS/index.ts"
	defaultLinestringScript  = "linestring.ts"
	defaultLoginScript       = "EventSource/loginCreds.ts"
	defaultRMLMapperJar      = "RML/rmlmapper-5.0.0-r362-all.jar"
	defaultTemplate          = "RML/track_points.yaml"
	defaultGenerated         = "RML/track_points_generated.yaml"
	defaultRMLOutput         = "RML/mapping.ttl"
	defaultCleanedInput      = "clean.xml"
	defaultRDFOutput         = "location.ttl"
	defaultTimestampPath     = "http://www.w3.org/ns/sosa/resultTime"
	defaultHistoryLimit      = 20
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:  defaultWorkDir,
			StateDir: defaultStateDir,
		},
		Tools: Tools{
			Node:              defaultNode,
			Npx:               defaultNpx,
			Java:              defaultJava,
			CleanScript:       defaultCleanScript,
			YarrrmlParser:     defaultYarrrmlParser,
			EventSourceScript: defaultEventSourceScript,
			ContainerScript:   defaultContainerScript,
			CSSScript:         defaultCSSScript,
			LinestringScript:  defaultLinestringScript,
			LoginScript:       defaultLoginScript,
			RMLMapperJar:      defaultRMLMapperJar,
		},
		Mapping: Mapping{
			Template:     defaultTemplate,
			Generated:    defaultGenerated,
			RMLOutput:    defaultRMLOutput,
			CleanedInput: defaultCleanedInput,
			RDFOutput:    defaultRDFOutput,
		},
		Pipeline: Pipeline{
			TimestampPath: defaultTimestampPath,
		},
		History: History{
			Enabled: true,
			Limit:   defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
