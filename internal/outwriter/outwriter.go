// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/ctmeta/core/project"
	"github.com/huangsam/ctmeta/internal/contract"
	"github.com/huangsam/ctmeta/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	stdout io.Writer
	stderr io.Writer
}

// NewOutWriter creates a new instance of the output writer bound to the process streams.
func NewOutWriter() *OutWriter {
	return NewOutWriterTo(nil, nil)
}

// NewOutWriterTo creates an output writer bound to the given streams.
// A nil stream falls back to the process stream.
func NewOutWriterTo(stdout, stderr io.Writer) *OutWriter {
	return &OutWriter{stdout: stdout, stderr: stderr}
}

// WriteTable writes the projected store using the configured output format.
func (ow *OutWriter) WriteTable(table *project.Table, cfg *contract.Config) error {
	return WriteTable(ow.out(), ow.errOut(), table, cfg)
}

// WriteAttribution prints the record to identity table.
func (ow *OutWriter) WriteAttribution(table *project.Table, cfg *contract.Config) error {
	return WriteAttribution(ow.out(), table, cfg)
}

// WriteMergeSummary prints the outcome of a merge run.
func (ow *OutWriter) WriteMergeSummary(summary schema.MergeSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteMergeSummary(ow.out(), summary, cfg.UseColors, duration)
}

func (ow *OutWriter) out() io.Writer {
	if ow.stdout == nil {
		return stdoutWriter()
	}
	return ow.stdout
}

func (ow *OutWriter) errOut() io.Writer {
	if ow.stderr == nil {
		return stderrWriter()
	}
	return ow.stderr
}
