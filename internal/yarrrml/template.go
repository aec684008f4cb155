package yarrrml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Placeholder tokens recognised in the mapping template.
const (
	TokenPersonURL     = "PERSONURL"
	TokenTransportMode = "TRANSPORTMODE"
	TokenDeviceURL     = "DEVICEURL"
	TokenSensorURL     = "SENSORURL"
	TokenVersionURL    = "VERSIONURL"
)

// TransportModeLine is removed verbatim when no transport mode is given.
const TransportModeLine = "      - [tm:transportMode, TRANSPORTMODE]\n"

// Tokens lists the placeholders in substitution order.
var Tokens = []string{TokenPersonURL, TokenTransportMode, TokenDeviceURL, TokenSensorURL, TokenVersionURL}

// Values holds the per-recording replacements.
type Values struct {
	PersonURL     string
	TransportMode string
	// TransportModeSet distinguishes an explicitly empty mode, which is
	// substituted, from an absent one, which drops TransportModeLine.
	TransportModeSet bool
	DeviceURL        string
	SensorURL        string
	VersionURL       string
}

// Render applies the substitutions to template.
func Render(template string, v Values) string {
	out := strings.ReplaceAll(template, TokenPersonURL, v.PersonURL)
	if !v.TransportModeSet {
		out = strings.ReplaceAll(out, TransportModeLine, "")
	} else {
		out = strings.ReplaceAll(out, TokenTransportMode, v.TransportMode)
	}
	out = strings.ReplaceAll(out, TokenDeviceURL, v.DeviceURL)
	out = strings.ReplaceAll(out, TokenSensorURL, v.SensorURL)
	out = strings.ReplaceAll(out, TokenVersionURL, v.VersionURL)
	return out
}

// Generate reads the template at templatePath, renders it, and writes the
// result to outputPath. It returns the rendered document.
func Generate(templatePath, outputPath string, v Values) (string, error) {
	data, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("read mapping template: %w", err)
	}
	rendered := Render(string(data), v)
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create mapping directory: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write generated mapping: %w", err)
	}
	return rendered, nil
}

// Unresolved reports placeholder tokens still present in rendered, in
// substitution order.
func Unresolved(rendered string) []string {
	var left []string
	for _, token := range Tokens {
		if strings.Contains(rendered, token) {
			left = append(left, token)
		}
	}
	return left
}

// CheckSyntax reports whether rendered is still a well-formed YAML document.
// A substituted value containing YAML syntax can break the mapping, which
// yarrrml-parser would otherwise only report after the cleaning stage ran.
func CheckSyntax(rendered []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(rendered))
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("generated mapping is not valid YAML: %w", err)
		}
	}
}
