// Package report builds a JSON-serializable manifest of one compile run:
// a build ID, the source file, the instruction and label counts the
// caller passes to Finish (`natc compile` passes the program's AST
// instructions, nested bodies included, and its variable storage labels),
// elapsed wall-clock time, and any non-fatal warnings collected along the
// way.
//
// No single teacher file needs this — a complete CLI does, the way
// go-dws's own `compile` subcommand prints verbose-mode counters — so
// this package supplements the ambient stack rather than adapting one
// teacher file directly.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Report is the JSON shape written by `natc compile --report` and
// printed in human-readable form by `-v`.
type Report struct {
	BuildID      string        `json:"build_id"`
	File         string        `json:"file"`
	Instructions int           `json:"instructions"`
	Labels       int           `json:"labels"`
	Warnings     []string      `json:"warnings,omitempty"`
	Elapsed      time.Duration `json:"elapsed_ns"`
	started      time.Time
}

// New starts a report for file. Call Finish once compilation completes.
func New(file string, startedAt time.Time) *Report {
	return &Report{
		BuildID: uuid.NewString(),
		File:    file,
		started: startedAt,
	}
}

// AddWarning appends a non-fatal warning message.
func (r *Report) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finish records elapsed time and counts given the final instruction and
// label totals.
func (r *Report) Finish(instructions, labels int, finishedAt time.Time) {
	r.Instructions = instructions
	r.Labels = labels
	r.Elapsed = finishedAt.Sub(r.started)
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// HumanSummary renders a one-line, human-readable summary using
// comma-grouped instruction/label counts and a plain duration for `-v`
// output.
func (r *Report) HumanSummary() string {
	return fmt.Sprintf("build %s: %s instruction(s), %s label(s) in %s",
		r.BuildID,
		humanize.Comma(int64(r.Instructions)),
		humanize.Comma(int64(r.Labels)),
		r.Elapsed)
}
