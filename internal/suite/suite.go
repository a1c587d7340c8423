// Package suite parses YAML query-suite files: a document source plus
// named JSONPath queries with optional expected results.
package suite

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "github.com/goccy/go-yaml"

	"github.com/jacoelho/jp/internal/jsonpath"
)

// ErrSuite is the sentinel error for all suite parsing and validation
// failures.
var ErrSuite = errors.New("suite: invalid suite")

// Query is one named query in a suite. When Expect is set, the runner
// compares the selected values against it.
type Query struct {
	Name   string `yaml:"name"`
	Path   string `yaml:"path"`
	Expect any    `yaml:"expect,omitempty"`
}

// Suite couples a document source (file path or URL) with the queries
// to run against it.
type Suite struct {
	Document string  `yaml:"document"`
	Queries  []Query `yaml:"queries"`
}

// Parse decodes and validates a suite. Every query must carry a name
// and a path that compiles.
func Parse(r io.Reader) (*Suite, error) {
	decoder := yaml.NewDecoder(r)

	var s Suite
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: failed to decode YAML: %v", ErrSuite, err)
	}

	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and parses a suite file.
func ParseFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSuite, err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func (s *Suite) validate() error {
	if s.Document == "" {
		return fmt.Errorf("%w: missing document source", ErrSuite)
	}
	if len(s.Queries) == 0 {
		return fmt.Errorf("%w: no queries", ErrSuite)
	}

	seen := make(map[string]struct{}, len(s.Queries))
	for i, q := range s.Queries {
		if q.Name == "" {
			return fmt.Errorf("%w: query %d has no name", ErrSuite, i)
		}
		if _, ok := seen[q.Name]; ok {
			return fmt.Errorf("%w: duplicate query name %q", ErrSuite, q.Name)
		}
		seen[q.Name] = struct{}{}

		if q.Path == "" {
			return fmt.Errorf("%w: query %q has no path", ErrSuite, q.Name)
		}
		if _, err := jsonpath.Compile(q.Path); err != nil {
			return fmt.Errorf("%w: query %q: %v", ErrSuite, q.Name, err)
		}
	}
	return nil
}
