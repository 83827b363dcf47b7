// SPDX-License-Identifier: EPL-2.0

// Package batch executes a sequence of independent mixdown jobs with
// retry logic and textual progress reporting. Each job is treated as an
// opaque unit of work that either succeeds or returns an error; jobs
// must target distinct output directories.
package batch

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Job is one unit of batch work.
type Job struct {
	Name string
	Run  func() error
}

// Result records the outcome of one job.
type Result struct {
	Name     string
	Err      error
	Attempts int
	Elapsed  time.Duration
}

// Stats summarizes a batch run.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Retries   int
	Elapsed   time.Duration
	Results   []Result
}

// Executor runs jobs in order, retrying failures up to MaxRetries times
// each, and renders a progress bar with ETA to Out after every job. Out
// only needs to accept writes, so any sink works (stdout, a log file, a
// test buffer).
type Executor struct {
	Jobs       []Job
	MaxRetries int
	BarWidth   int
	Out        io.Writer

	// now is injectable for deterministic progress output in tests.
	now func() time.Time
}

const defaultBarWidth = 20

// Run executes all jobs in order and returns the batch statistics. A
// failed job never aborts the batch; its error is recorded in Results.
func (e *Executor) Run() Stats {
	barWidth := e.BarWidth
	if barWidth <= 0 {
		barWidth = defaultBarWidth
	}

	out := e.Out
	if out == nil {
		out = io.Discard
	}

	now := e.now
	if now == nil {
		now = time.Now
	}

	stats := Stats{Total: len(e.Jobs)}
	start := now()

	for i, job := range e.Jobs {
		jobStart := now()
		attempts := 0

		var err error
		for {
			attempts++
			err = job.Run()
			if err == nil {
				stats.Succeeded++
				break
			}
			if attempts > e.MaxRetries {
				stats.Failed++
				break
			}
			stats.Retries++
		}

		stats.Results = append(stats.Results, Result{
			Name:     job.Name,
			Err:      err,
			Attempts: attempts,
			Elapsed:  now().Sub(jobStart),
		})

		e.progress(out, barWidth, i+1, len(e.Jobs), now().Sub(start))
	}

	fmt.Fprintln(out)
	stats.Elapsed = now().Sub(start)
	return stats
}

// progress renders a carriage-returned bar like
// [========            ] 3/7 ( 42.9%) ETA  12.3s
func (e *Executor) progress(out io.Writer, barWidth, completed, total int, elapsed time.Duration) {
	pct := 0.0
	eta := 0.0
	if total > 0 && completed > 0 {
		pct = float64(completed) / float64(total)
		rate := elapsed.Seconds() / float64(completed)
		eta = float64(total-completed) * rate
	}

	filled := int(float64(barWidth) * pct)
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"

	fmt.Fprintf(out, "\r%s %d/%d (%5.1f%%) ETA %5.1fs", bar, completed, total, pct*100, eta)
}
