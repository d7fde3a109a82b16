package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// JSONEnvelope wraps a report with metadata for the JSON output format.
type JSONEnvelope struct {
	*Report
	Metadata JSONMetadata `json:"metadata"`
}

// JSONMetadata describes the run that produced the report.
type JSONMetadata struct {
	GeneratedAt string `json:"generated_at"`
	Clean       bool   `json:"clean"`
}

// JSONFormatter writes reports as a JSON object with a metadata envelope.
type JSONFormatter struct {
	// Compact forces single-line output. When false, output is indented
	// for terminals and compact for pipes and files.
	Compact bool

	// nowFunc is used for testing to override the current time.
	nowFunc func() time.Time
}

// Compile-time interface check.
var _ Formatter = (*JSONFormatter)(nil)

// NewJSONFormatter returns a new JSONFormatter with default settings.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format writes r as one JSON document followed by a newline. The graph
// itself is only included for the graph command; other commands carry it
// for display and would otherwise dump every node.
func (f *JSONFormatter) Format(r *Report, w io.Writer) error {
	if r.Graph != nil && r.Command != "graph" {
		trimmed := *r
		trimmed.Graph = nil
		r = &trimmed
	}
	now := time.Now()
	if f.nowFunc != nil {
		now = f.nowFunc()
	}
	envelope := JSONEnvelope{
		Report: r,
		Metadata: JSONMetadata{
			GeneratedAt: now.UTC().Format(time.RFC3339),
			Clean:       r.Diagnostics == nil || r.Diagnostics.Clean(),
		},
	}

	var data []byte
	var err error
	if f.shouldCompact(w) {
		data, err = json.Marshal(envelope)
	} else {
		data, err = json.MarshalIndent(envelope, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// shouldCompact pretty-prints for terminals and any non-file writer, and
// compacts for pipes and regular files unless Compact forces it.
func (f *JSONFormatter) shouldCompact(w io.Writer) bool {
	if f.Compact {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := file.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice == 0
}
