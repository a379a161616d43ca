// Package registry is the action factory registry (spec.md §4.10): each
// action declares a JSON schema for its config, which ValidateConfig
// checks a config blob against. Neither Workflow.Validate nor the
// interpreter calls ValidateConfig, so configs reach action factories
// without a schema check. Grounded on the teacher's pkg/registry and
// on the schema validation pattern used in pkg/sources/webhook/server.go
// and pkg/providers/kafka/provider.go (both built on xeipuuv/gojsonschema).
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/dukex/integrail/internal/domain"
)

// Caller invokes a provider method through the dispatcher, on behalf of
// userID against app.
type Caller func(ctx context.Context, userID string, app domain.App, method string, args map[string]any) (any, error)

// MethodCredentialMetadata is a reserved Caller method name that returns
// the caller's stored credential metadata for app instead of routing to
// a provider API call; actions use it for fallbacks such as send_dm's
// installing-user lookup (spec.md §4.10).
const MethodCredentialMetadata = "credentialMetadata"

// ActionFactory performs an action's side effect against an
// already-template-substituted config blob, returning a result detail
// map for the run's execution log.
type ActionFactory func(ctx context.Context, call Caller, userID string, app domain.App, config map[string]any) (map[string]any, error)

// ActionSpec pairs an action type's JSON schema with its factory.
type ActionSpec struct {
	Type    string
	App     domain.App
	Schema  map[string]any
	Factory ActionFactory
}

// Registry holds every registered action type keyed by its
// spec.md §4.10 action_id string.
type Registry struct {
	actions map[string]ActionSpec
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{actions: make(map[string]ActionSpec)}
}

// RegisterAction adds spec to the registry, keyed by spec.Type.
func (r *Registry) RegisterAction(spec ActionSpec) {
	r.actions[spec.Type] = spec
}

// ErrUnknownAction is a sentinel wrapped when an action type is
// not registered.
var ErrUnknownAction = fmt.Errorf("action type not registered")

// ValidateConfig checks config against actionType's declared JSON
// schema.
func (r *Registry) ValidateConfig(actionType string, config map[string]any) error {
	spec, ok := r.actions[actionType]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
	}

	if spec.Schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(spec.Schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("validate action config: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}

		return fmt.Errorf("action '%s' config invalid: %s", actionType, strings.Join(msgs, "; "))
	}

	return nil
}

// Call invokes actionType's factory against config, which must have
// already passed template substitution.
func (r *Registry) Call(ctx context.Context, call Caller, userID, actionType string, config map[string]any) (map[string]any, error) {
	spec, ok := r.actions[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, actionType)
	}

	return spec.Factory(ctx, call, userID, spec.App, config)
}

// App returns the provider app a registered action type targets.
func (r *Registry) App(actionType string) (domain.App, bool) {
	spec, ok := r.actions[actionType]

	return spec.App, ok
}
