// Package diff compares two snapshots collection by collection and
// produces an ordered change report.
package diff

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// ChangeType classifies one change entry.
type ChangeType string

const (
	ChangeAdded      ChangeType = "added"
	ChangeRemoved    ChangeType = "removed"
	ChangeErrorDelta ChangeType = "error_delta"
	ChangeCountDelta ChangeType = "count_delta"
)

// Change is one detected difference within a collection key.
type Change struct {
	Type   ChangeType `json:"type"`
	Metric string     `json:"metric,omitempty"`
	Detail string     `json:"detail"`
	Before int        `json:"before,omitempty"`
	After  int        `json:"after,omitempty"`
}

// Section groups the changes of one collection key.
type Section struct {
	Key     string   `json:"key"`
	Changes []Change `json:"changes"`
}

// Report is the comparison of two snapshots. Sections are ordered
// lexicographically by collection key; regenerated on every request.
type Report struct {
	Baseline    string    `json:"baseline"`
	Current     string    `json:"current"`
	GeneratedAt time.Time `json:"generated_at"`
	Sections    []Section `json:"sections"`
}

// HasChanges reports whether any section carries a change.
func (r *Report) HasChanges() bool {
	for _, s := range r.Sections {
		if len(s.Changes) > 0 {
			return true
		}
	}
	return false
}

// Loader reconstructs a snapshot's collections; satisfied by the
// snapshot store.
type Loader interface {
	Load(name string) (map[string]types.CollectionResult, map[string]error, error)
}

// Engine compares snapshots loaded from a store.
type Engine struct {
	store  Loader
	logger zerolog.Logger
}

// NewEngine creates a comparison engine.
func NewEngine(store Loader, logger zerolog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Compare loads both snapshots and diffs the union of their collection
// keys in lexicographic order.
func (e *Engine) Compare(baseline, current string) (*Report, error) {
	baselineData, baselineFailures, err := e.store.Load(baseline)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline: %w", err)
	}
	currentData, currentFailures, err := e.store.Load(current)
	if err != nil {
		return nil, fmt.Errorf("failed to load current: %w", err)
	}

	for key, loadErr := range baselineFailures {
		e.logger.Warn().Err(loadErr).Str("snapshot", baseline).Str("collection", key).Msg("baseline collection unreadable")
	}
	for key, loadErr := range currentFailures {
		e.logger.Warn().Err(loadErr).Str("snapshot", current).Str("collection", key).Msg("current collection unreadable")
	}

	report := &Report{
		Baseline:    baseline,
		Current:     current,
		GeneratedAt: time.Now(),
	}

	for _, key := range unionKeys(baselineData, currentData) {
		baselineResult, inBaseline := baselineData[key]
		currentResult, inCurrent := currentData[key]

		section := Section{Key: key}
		switch {
		case !inBaseline:
			section.Changes = append(section.Changes, Change{
				Type:   ChangeAdded,
				Detail: "collection added in current snapshot",
			})
		case !inCurrent:
			section.Changes = append(section.Changes, Change{
				Type:   ChangeRemoved,
				Detail: "collection missing in current snapshot",
			})
		default:
			section.Changes = compareCollections(baselineResult, currentResult)
		}

		report.Sections = append(report.Sections, section)
	}

	return report, nil
}

// compareCollections diffs two results for the same collection key.
func compareCollections(baseline, current types.CollectionResult) []Change {
	var changes []Change

	if b, c := baseline.ErrorCount(), current.ErrorCount(); b != c {
		direction := "increased"
		if c < b {
			direction = "decreased"
		}
		changes = append(changes, Change{
			Type:   ChangeErrorDelta,
			Detail: fmt.Sprintf("errors %s: %d -> %d", direction, b, c),
			Before: b,
			After:  c,
		})
	}

	names := unionKeys(baseline.Metrics, current.Metrics)
	for _, name := range names {
		baselineMetric, inBaseline := baseline.Metrics[name]
		currentMetric, inCurrent := current.Metrics[name]

		switch {
		case !inBaseline:
			changes = append(changes, Change{
				Type:   ChangeAdded,
				Metric: name,
				Detail: "new metric",
			})
		case !inCurrent:
			changes = append(changes, Change{
				Type:   ChangeRemoved,
				Metric: name,
				Detail: "metric missing",
			})
		default:
			before, okBefore := extractCount(baselineMetric)
			after, okAfter := extractCount(currentMetric)
			if okBefore && okAfter && before != after {
				changes = append(changes, Change{
					Type:   ChangeCountDelta,
					Metric: name,
					Detail: fmt.Sprintf("count: %d -> %d", before, after),
					Before: before,
					After:  after,
				})
			}
		}
	}

	return changes
}

// extractCount finds the comparable count of a metric: the first field of
// the normalized payload (in sorted field order) whose name contains
// "total", falling back to the record count for metrics without a
// normalized payload. Returns false when the metric carries nothing
// comparable.
func extractCount(metric types.MetricResult) (int, bool) {
	if len(metric.Processed) > 0 {
		keys := make([]string, 0, len(metric.Processed))
		for k := range metric.Processed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if !strings.Contains(k, "total") {
				continue
			}
			if n, ok := asInt(metric.Processed[k]); ok {
				return n, true
			}
		}
		return 0, false
	}

	if metric.Error == "" {
		return metric.Count, true
	}
	return 0, false
}

// asInt coerces JSON and in-memory numeric forms.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func unionKeys[V any](a, b map[string]V) []string {
	seen := make(map[string]bool)
	var keys []string
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
