package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/logtriage/internal/domain"
)

// TextWriter writes human-readable run output
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteSummary prints the run counters as a table followed by a status line
func (w *TextWriter) WriteSummary(s *domain.RunSummary) error {
	if _, err := fmt.Fprintln(w.w, Styles.Header.Render("Analysis of "+s.InputPath)+" "+SeverityStyle(s.Severity).Render(s.Severity.String())); err != nil {
		return err
	}

	rows := [][]string{
		{"Lines read", strconv.Itoa(s.LinesRead)},
		{"Records parsed", strconv.Itoa(s.RecordsParsed)},
		{"Lines skipped", strconv.Itoa(s.LinesSkipped)},
		{"Matched " + s.Severity.String(), strconv.Itoa(s.RecordsMatched)},
		{"Processed", strconv.Itoa(s.Processed)},
	}
	if s.Interrupted > 0 {
		rows = append(rows, []string{"Interrupted", strconv.Itoa(s.Interrupted)})
	}
	if s.Failed > 0 {
		rows = append(rows, []string{"Failed", strconv.Itoa(s.Failed)})
	}
	rows = append(rows,
		[]string{"Workers", strconv.Itoa(s.Workers)},
		[]string{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
	)

	table := tablewriter.NewWriter(w.w)
	table.Header("Metric", "Value")
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if s.ReportWritten {
		if _, err := fmt.Fprintf(w.w, "%s %s\n", Styles.Label.Render("Report:"), s.ReportPath); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w.w, "%s %s\n", Styles.Label.Render("STATUS:"), StatusText(s))
	return err
}

// WriteError prints an error with its code
func (w *TextWriter) WriteError(code, message string) error {
	_, err := fmt.Fprintf(w.w, "%s %s\n", Styles.Danger.Render("Error ["+code+"]:"), message)
	return err
}

// WriteWarning prints a warning
func (w *TextWriter) WriteWarning(message string) error {
	_, err := fmt.Fprintf(w.w, "%s %s\n", Styles.Caution.Render("Warning:"), message)
	return err
}
