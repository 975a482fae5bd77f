// Package collector implements the per-role collection framework: fixed
// metric tables, fetch and parse per metric, and role-specific validation.
package collector

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/ainglese-dev/aci-maintenance-core/fabric"
	"github.com/ainglese-dev/aci-maintenance-core/types"
)

// Collector kinds. A closed set: fabric-wide and controller collect over
// the API, leaf and spine over device CLI sessions.
const (
	KindFabric     = "fabric"
	KindController = "controller"
	KindLeaf       = "leaf"
	KindSpine      = "spine"
)

// Kinds lists all collector kinds in collection order.
var Kinds = []string{KindFabric, KindController, KindLeaf, KindSpine}

// Metric is one immutable entry of a collector's table: a symbolic name
// bound to an API class path or a CLI command.
type Metric struct {
	Name        string
	Path        string
	Command     string
	Description string
	Query       map[string]string
}

// FabricAPI fetches class queries through the primary controller session.
type FabricAPI interface {
	FabricData(ctx context.Context, path string, query map[string]string) (gjson.Result, error)
}

// SessionProvider hands out cached per-device command sessions.
type SessionProvider interface {
	Session(ctx context.Context, device types.Device) (fabric.CommandRunner, error)
}

// Collector gathers one fixed table of metrics for a target. Instances
// are stateless across invocations; Collect is idempotent for an
// unchanged fabric.
type Collector interface {
	Name() string
	Kind() string
	Collect(ctx context.Context, target types.Device) types.CollectionResult
}

// Registry holds the closed set of collector variants keyed by kind.
type Registry struct {
	collectors map[string]Collector
}

// NewRegistry wires all four collector variants to the fabric client.
func NewRegistry(api FabricAPI, sessions SessionProvider, logger zerolog.Logger) *Registry {
	return &Registry{
		collectors: map[string]Collector{
			KindFabric:     NewFabricWide(api, logger),
			KindController: NewController(api, logger),
			KindLeaf:       NewLeaf(sessions, logger),
			KindSpine:      NewSpine(sessions, logger),
		},
	}
}

// Get returns the collector for a kind.
func (r *Registry) Get(kind string) (Collector, bool) {
	c, ok := r.collectors[kind]
	return c, ok
}

// ForRole returns the device collector matching a switch role.
func (r *Registry) ForRole(role types.Role) (Collector, bool) {
	switch role {
	case types.RoleLeaf:
		return r.Get(KindLeaf)
	case types.RoleSpine:
		return r.Get(KindSpine)
	default:
		return nil, false
	}
}
