package types

import (
	"encoding/json"
	"time"
)

// MetricResult holds one metric's raw payload and its normalized form.
// Processed values are scalar counts, flags and categorized sub-lists;
// Raw keeps the source payload for offline inspection.
type MetricResult struct {
	Source      string          `json:"source"`
	Description string          `json:"description"`
	Count       int             `json:"count"`
	Raw         json.RawMessage `json:"raw,omitempty"`
	RawText     string          `json:"raw_text,omitempty"`
	Processed   map[string]any  `json:"processed,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// CollectionResult is the output of one collector run against one target.
type CollectionResult struct {
	Collector       string                  `json:"collector"`
	Target          string                  `json:"target,omitempty"`
	StartTime       time.Time               `json:"start_time"`
	EndTime         time.Time               `json:"end_time"`
	DurationSeconds float64                 `json:"duration_seconds"`
	Errors          []string                `json:"errors"`
	Metrics         map[string]MetricResult `json:"metrics"`
}

// ErrorCount returns the number of accumulated errors.
func (r CollectionResult) ErrorCount() int {
	return len(r.Errors)
}

// MetricNames returns the metric names in sorted order for deterministic
// summaries and diffs.
func (r CollectionResult) MetricNames() []string {
	return sortedKeys(r.Metrics)
}
