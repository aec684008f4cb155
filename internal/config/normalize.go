package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeMapping()
	c.Pipeline.TimestampPath = strings.TrimSpace(c.Pipeline.TimestampPath)
	if c.History.Limit <= 0 {
		c.History.Limit = defaultHistoryLimit
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	var err error
	if c.Paths.WorkDir, err = expandPath(strings.TrimSpace(c.Paths.WorkDir)); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Node = orDefault(c.Tools.Node, defaultNode)
	c.Tools.Npx = orDefault(c.Tools.Npx, defaultNpx)
	c.Tools.Java = orDefault(c.Tools.Java, defaultJava)
	c.Tools.CleanScript = orDefault(c.Tools.CleanScript, defaultCleanScript)
	c.Tools.YarrrmlParser = orDefault(c.Tools.YarrrmlParser, defaultYarrrmlParser)
	c.Tools.EventSourceScript = orDefault(c.Tools.EventSourceScript, defaultEventSourceScript)
	c.Tools.ContainerScript = orDefault(c.Tools.ContainerScript, defaultContainerScript)
	c.Tools.CSSScript = orDefault(c.Tools.CSSScript, defaultCSSScript)
	c.Tools.LinestringScript = orDefault(c.Tools.LinestringScript, defaultLinestringScript)
	c.Tools.LoginScript = orDefault(c.Tools.LoginScript, defaultLoginScript)
	c.Tools.RMLMapperJar = orDefault(c.Tools.RMLMapperJar, defaultRMLMapperJar)
}

func (c *Config) normalizeMapping() {
	c.Mapping.Template = orDefault(c.Mapping.Template, defaultTemplate)
	c.Mapping.Generated = orDefault(c.Mapping.Generated, defaultGenerated)
	c.Mapping.RMLOutput = orDefault(c.Mapping.RMLOutput, defaultRMLOutput)
	c.Mapping.CleanedInput = orDefault(c.Mapping.CleanedInput, defaultCleanedInput)
	c.Mapping.RDFOutput = orDefault(c.Mapping.RDFOutput, defaultRDFOutput)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}
