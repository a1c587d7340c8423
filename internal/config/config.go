// Package config parses command-line arguments for the jp tool.
package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jacoelho/jp/internal/exit"
	"github.com/jacoelho/jp/internal/jsonpath"
)

const (
	// DefaultTimeout is the default timeout for remote document fetches.
	DefaultTimeout = 30 * time.Second
)

var (
	ErrNoArguments = errors.New("no arguments provided")
	ErrNoInputs    = errors.New("no suite files or document sources specified")
)

// Config is the complete configuration for one jp invocation. With
// Expression set, the positional arguments are document sources and
// the expression is evaluated against each; otherwise they are suite
// files.
type Config struct {
	Expression string
	Inputs     []string

	FetchTimeout time.Duration
	RateLimit    float64 // Requests per second (0 = unlimited)
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and an
// exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Usage and errors are rendered by this package, not by flag.
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	var (
		expression = fs.String("e", "", "JSONPath expression to evaluate against each document")
		timeout    = fs.Duration("timeout", DefaultTimeout, "Remote fetch timeout")
		rateLimit  = fs.Float64("rate-limit", 0, "Rate limit in requests per second (0 for unlimited)")
	)

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoInputs, Usage())
	}

	cfg := &Config{
		Expression:   *expression,
		Inputs:       inputs,
		FetchTimeout: *timeout,
		RateLimit:    *rateLimit,
	}

	if err := cfg.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return cfg, nil
}

// Validate checks the expression compiles and that local inputs exist.
// Document sources for -e may be URLs; those are only checked at fetch
// time.
func (c *Config) Validate() error {
	if c.Expression != "" {
		if _, err := jsonpath.Compile(c.Expression); err != nil {
			return err
		}
	}

	for _, input := range c.Inputs {
		if IsRemote(input) {
			continue
		}
		if _, err := os.Stat(input); err != nil {
			return err
		}
	}
	return nil
}

// IsRemote reports whether a source names an HTTP document.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Usage returns the command-line help text.
func Usage() string {
	return `jp - JSONPath query tool

Usage: jp [options] <suite1.yaml> [suite2.yaml] ...
       jp [options] -e <expression> <document> [document2] ...

Options:
  -e EXPRESSION           Evaluate a single JSONPath expression instead of suites
  --timeout DURATION      Remote fetch timeout (default: 30s)
  --rate-limit N          Rate limit in requests per second (0 for unlimited)
  -h, --help              Show this help message

Expressions may call aggregate functions over node-sets:
  min, max, avg, sum, prod, count, tokenize

Examples:
  jp suite.yaml                               # Run a query suite
  jp -e '$.store.book[*].author' store.json   # Select from a local document
  jp -e 'max($..price)' https://api/prices    # Aggregate a remote document
  jp --rate-limit 5 suite1.yaml suite2.yaml   # Throttle remote fetches`
}
