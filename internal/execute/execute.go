// Package execute runs jp invocations: single expressions against
// documents, or YAML query suites with expectations.
package execute

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jacoelho/jp/internal/config"
	"github.com/jacoelho/jp/internal/document"
	"github.com/jacoelho/jp/internal/fetch"
	"github.com/jacoelho/jp/internal/jsonpath"
	"github.com/jacoelho/jp/internal/report"
	"github.com/jacoelho/jp/internal/suite"
)

// Runner executes a parsed configuration.
type Runner struct {
	cfg     *config.Config
	fetcher *fetch.Fetcher
	stdout  io.Writer
	stderr  io.Writer
}

// New builds a runner writing to stdout and stderr.
func New(cfg *config.Config) *Runner {
	return &Runner{
		cfg:     cfg,
		fetcher: fetch.New(cfg.FetchTimeout, cfg.RateLimit),
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// NewWithOutput builds a runner with explicit output writers.
func NewWithOutput(cfg *config.Config, stdout, stderr io.Writer) *Runner {
	r := New(cfg)
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// Run executes the configuration and returns the process exit code.
func (r *Runner) Run(ctx context.Context) int {
	if r.cfg.Expression != "" {
		return r.runExpression(ctx)
	}
	return r.runSuites(ctx)
}

func (r *Runner) runExpression(ctx context.Context) int {
	q, err := jsonpath.Compile(r.cfg.Expression)
	if err != nil {
		fmt.Fprintf(r.stderr, "jp: %v\n", err)
		return 1
	}

	exitCode := 0
	for _, source := range r.cfg.Inputs {
		values, err := r.selectFrom(ctx, q, source)
		if err != nil {
			fmt.Fprintf(r.stderr, "jp: %s: %v\n", source, err)
			exitCode = 1
			continue
		}

		for _, v := range values {
			data, err := json.Marshal(v)
			if err != nil {
				fmt.Fprintf(r.stderr, "jp: %s: %v\n", source, err)
				exitCode = 1
				continue
			}
			fmt.Fprintln(r.stdout, string(data))
		}
	}
	return exitCode
}

func (r *Runner) runSuites(ctx context.Context) int {
	exitCode := 0
	for _, path := range r.cfg.Inputs {
		s, err := suite.ParseFile(path)
		if err != nil {
			fmt.Fprintf(r.stderr, "jp: %v\n", err)
			exitCode = 1
			continue
		}

		run, err := r.runSuite(ctx, s)
		if err != nil {
			fmt.Fprintf(r.stderr, "jp: %s: %v\n", path, err)
			exitCode = 1
			continue
		}

		if err := run.Format(r.stdout); err != nil {
			fmt.Fprintf(r.stderr, "jp: %v\n", err)
			return 1
		}
		if run.Failed() > 0 {
			exitCode = 1
		}
	}
	return exitCode
}

func (r *Runner) runSuite(ctx context.Context, s *suite.Suite) (*report.Run, error) {
	data, err := r.fetcher.Fetch(ctx, s.Document)
	if err != nil {
		return nil, err
	}

	doc, err := document.Decode(data)
	if err != nil {
		return nil, err
	}

	run := report.NewRun(s.Document)
	for _, query := range s.Queries {
		run.Add(r.runQuery(doc, query))
	}
	run.Finish()
	return run, nil
}

func (r *Runner) runQuery(doc document.Value, query suite.Query) report.Outcome {
	outcome := report.Outcome{Name: query.Name, Path: query.Path}

	q, err := jsonpath.Compile(query.Path)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	values, err := q.SelectInterface(doc)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Values = values

	if query.Expect != nil {
		outcome.Checked = true
		outcome.Passed = expectationMet(query.Expect, values)
	}
	return outcome
}

func (r *Runner) selectFrom(ctx context.Context, q *jsonpath.Query, source string) ([]any, error) {
	data, err := r.fetcher.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	doc, err := document.Decode(data)
	if err != nil {
		return nil, err
	}
	return q.SelectInterface(doc)
}

// expectationMet compares the expected value from the suite against
// the selected values. A single selected value may be compared
// directly; otherwise the expectation must match the whole list.
func expectationMet(expect any, values []any) bool {
	if len(values) == 1 && compareValues(values[0], expect) {
		return true
	}
	return compareValues(values, expect)
}
