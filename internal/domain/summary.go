package domain

import "time"

// RunSummary describes the outcome of one analysis run
type RunSummary struct {
	Type          string `json:"type"`          // Always "summary"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility

	InputPath  string   `json:"input"`
	ReportPath string   `json:"report"`
	Severity   Severity `json:"severity"`
	Workers    int      `json:"workers"`

	// Ingestion
	LinesRead     int `json:"linesRead"`
	RecordsParsed int `json:"recordsParsed"`
	LinesSkipped  int `json:"linesSkipped"`

	// Processing
	RecordsMatched int `json:"recordsMatched"`
	Processed      int `json:"processed"`
	Interrupted    int `json:"interrupted,omitempty"`
	Failed         int `json:"failed,omitempty"`

	ReportWritten bool          `json:"reportWritten"`
	Elapsed       time.Duration `json:"elapsedNs"`
}

// NewRunSummary creates a new empty summary
func NewRunSummary() *RunSummary {
	return &RunSummary{
		Type: "summary",
	}
}

// ErrorOutput represents a structured error for NDJSON output
type ErrorOutput struct {
	Type          string `json:"type"`          // Always "error"
	SchemaVersion int    `json:"schemaVersion"` // Schema version for compatibility
	Code          string `json:"code"`          // Machine-readable error code
	Message       string `json:"message"`       // Human-readable message
}

// NewErrorOutput creates a new error output
// Note: SchemaVersion should be set by the caller (output package)
func NewErrorOutput(code, message string) *ErrorOutput {
	return &ErrorOutput{
		Type:    "error",
		Code:    code,
		Message: message,
	}
}
