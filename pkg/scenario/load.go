package scenario

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/framegraph/pkg/errors"
)

// Scenario file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Load reads, parses and validates the scenario at path. The format follows
// the file extension.
func Load(path string) (*Scenario, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read scenario")
	}
	s, err := Parse(data, format)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}

// Parse decodes and validates a scenario in the given format.
func Parse(data []byte, format string) (*Scenario, error) {
	var s Scenario
	var err error
	switch format {
	case FormatTOML:
		_, err = toml.NewDecoder(bytes.NewReader(data)).Decode(&s)
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown scenario format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decode %s", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer scenario format from %q", path)
}

// FormatFromContentType picks the format from an HTTP content type, defaulting
// to JSON.
func FormatFromContentType(ct string) string {
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "toml"):
		return FormatTOML
	case strings.Contains(ct, "yaml"):
		return FormatYAML
	}
	return FormatJSON
}
