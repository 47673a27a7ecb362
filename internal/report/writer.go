// Package report writes the one-line analysis report.
package report

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultPath is where the report is written when no path is configured
const DefaultPath = "relatorio.txt"

const messagePrefix = "Análise finalizada. Total de Erros Críticos encontrados: "

// Message returns the report line for count
func Message(count int) string {
	return fmt.Sprintf("%s%d", messagePrefix, count)
}

// WriteError is a non-recoverable failure to write the report
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Writer writes reports to a fixed path
type Writer struct {
	path string
}

// NewWriter creates a writer for path
func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{path: path}
}

// Path returns the destination path
func (w *Writer) Path() string { return w.path }

// Write replaces the report with the line for count. The content goes to a
// temporary file first so an earlier report survives a failed write.
func (w *Writer) Write(count int) error {
	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.WriteString(Message(count) + "\n"); err != nil {
		_ = tmp.Close()
		return &WriteError{Path: w.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	if err := os.Rename(tmpName, w.path); err != nil {
		return &WriteError{Path: w.path, Err: err}
	}
	return nil
}
