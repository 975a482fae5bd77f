package types

import (
	"sort"
	"time"
)

// Health classifies a snapshot by its total error count.
type Health string

const (
	HealthHealthy  Health = "healthy"
	HealthWarning  Health = "warning"
	HealthCritical Health = "critical"
)

// HealthFor maps a snapshot's total error count to a health tier.
func HealthFor(totalErrors int) Health {
	switch {
	case totalErrors == 0:
		return HealthHealthy
	case totalErrors <= 3:
		return HealthWarning
	default:
		return HealthCritical
	}
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"created_at"`
	Collections int       `json:"collections"`
	TotalErrors int       `json:"total_errors"`
	Health      Health    `json:"health,omitempty"`
	Baseline    bool      `json:"baseline,omitempty"`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
