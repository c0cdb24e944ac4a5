package annotations

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
	"sync"

	"github.com/toyz/pybind/internal/errors"
)

// Registry defines the interface for managing directive schemas
type Registry interface {
	// Register adds a directive with its schema
	Register(schema DirectiveSchema) error

	// Schema retrieves the schema of a directive
	Schema(name string) (DirectiveSchema, bool)

	// Names returns the registered directive names, sorted
	Names() []string

	// Validate checks a parsed directive against its schema
	Validate(attr *Attribute) error
}

// registry is the concrete implementation of Registry
type registry struct {
	mu      sync.RWMutex
	schemas map[string]DirectiveSchema
}

// NewRegistry creates an empty directive registry
func NewRegistry() Registry {
	return &registry{
		schemas: make(map[string]DirectiveSchema),
	}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry holding the built-in directives
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		for _, schema := range BuiltinSchemas() {
			if err := r.Register(schema); err != nil {
				panic(err)
			}
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Register adds a directive with its schema to the registry
func (r *registry) Register(schema DirectiveSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.schemas[schema.Name]; exists {
		return fmt.Errorf("directive %s is already registered", schema.Name)
	}
	if err := validateSchema(schema); err != nil {
		return fmt.Errorf("invalid schema for %s: %w", schema.Name, err)
	}

	r.schemas[schema.Name] = schema
	return nil
}

// Schema retrieves the schema of a directive
func (r *registry) Schema(name string) (DirectiveSchema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[name]
	return schema, exists
}

// Names returns the registered directive names, sorted
func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks attr against the schema registered under its name
func (r *registry) Validate(attr *Attribute) error {
	schema, ok := r.Schema(attr.Name)
	if !ok {
		known := make([]string, 0)
		for _, name := range r.Names() {
			known = append(known, DirectivePrefix+name)
		}
		return errors.MalformedDirective(attr.Location, attr.Raw, fmt.Sprintf("unknown directive '%s'", attr.Name)).
			WithSuggestion("known directives are " + strings.Join(known, ", "))
	}
	return schema.Validate(attr)
}

// validateSchema performs basic validation on a schema
func validateSchema(schema DirectiveSchema) error {
	if !token.IsIdentifier(schema.Name) {
		return fmt.Errorf("directive name '%s' must be an identifier", schema.Name)
	}
	if schema.Usage == "" {
		return fmt.Errorf("usage summary is required")
	}

	optional := false
	for _, arg := range schema.Args {
		if arg.Name == "" {
			return fmt.Errorf("argument name cannot be empty")
		}
		if arg.Kind != PathKind && arg.Kind != StringKind {
			return fmt.Errorf("invalid kind for argument %s: %d", arg.Name, arg.Kind)
		}
		if arg.Required && optional {
			return fmt.Errorf("required argument %s follows an optional one", arg.Name)
		}
		if !arg.Required {
			optional = true
		}
	}
	if schema.Variadic && optional {
		return fmt.Errorf("variadic directives cannot have optional leading arguments")
	}
	return nil
}
