package pipeline

import (
	"github.com/matzehuels/framegraph/pkg/errors"
	"github.com/matzehuels/framegraph/pkg/scenario"
)

// Input names a scenario source. Path is read from disk; otherwise Data is
// decoded in Format, which defaults to TOML.
type Input struct {
	Path   string
	Data   []byte
	Format string
	Name   string // overrides the scenario name
}

// LoadScenario parses and validates the scenario described by in.
func LoadScenario(in Input) (*scenario.Scenario, error) {
	var (
		s   *scenario.Scenario
		err error
	)
	switch {
	case in.Path != "":
		s, err = scenario.Load(in.Path)
	case len(in.Data) > 0:
		format := in.Format
		if format == "" {
			format = scenario.FormatTOML
		}
		s, err = scenario.Parse(in.Data, format)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "no scenario given")
	}
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		s.Name = in.Name
	}
	return s, nil
}
