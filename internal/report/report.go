// Package report aggregates query outcomes for one suite run and
// renders them for terminal output.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of one query against the suite document.
type Outcome struct {
	Name   string
	Path   string
	Values []any
	Err    error

	// Checked is true when the suite declared an expectation; Passed
	// is only meaningful in that case.
	Checked bool
	Passed  bool
}

// failed reports whether this outcome should fail the run.
func (o Outcome) failed() bool {
	return o.Err != nil || (o.Checked && !o.Passed)
}

// Run aggregates the outcomes of one suite execution. Each run carries
// a unique identifier so results from repeated invocations can be told
// apart in captured output.
type Run struct {
	ID       string
	Source   string
	Started  time.Time
	Duration time.Duration
	Outcomes []Outcome
}

// NewRun starts a run record for the given document source.
func NewRun(source string) *Run {
	return &Run{
		ID:      uuid.New().String(),
		Source:  source,
		Started: time.Now(),
	}
}

// Add records one query outcome.
func (r *Run) Add(outcome Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// Finish stamps the total duration.
func (r *Run) Finish() {
	r.Duration = time.Since(r.Started)
}

// Failed counts outcomes with errors or unmet expectations.
func (r *Run) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.failed() {
			n++
		}
	}
	return n
}

// Format writes a text summary of the run.
func (r *Run) Format(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "run %s source=%s queries=%d failed=%d duration=%s\n",
		r.ID, r.Source, len(r.Outcomes), r.Failed(), r.Duration.Round(time.Millisecond)); err != nil {
		return err
	}

	for _, o := range r.Outcomes {
		if err := formatOutcome(w, o); err != nil {
			return err
		}
	}
	return nil
}

func formatOutcome(w io.Writer, o Outcome) error {
	status := "ok"
	switch {
	case o.Err != nil:
		status = "error"
	case o.Checked && !o.Passed:
		status = "fail"
	}

	if o.Err != nil {
		_, err := fmt.Fprintf(w, "  %-5s %s %s: %v\n", status, o.Name, o.Path, o.Err)
		return err
	}

	_, err := fmt.Fprintf(w, "  %-5s %s %s => %s\n", status, o.Name, o.Path, renderValues(o.Values))
	return err
}

// renderValues prints a single result bare and multiple results as a
// JSON array.
func renderValues(values []any) string {
	var payload any = values
	if len(values) == 1 {
		payload = values[0]
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(data)
}
