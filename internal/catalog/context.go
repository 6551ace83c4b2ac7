// Package catalog manages the persisted library of known project contexts.
//
// A context pairs a reference fingerprint with the environment configuration
// learned for that project (service definitions, database settings, workflow
// defaults). The matching engine treats the configuration payloads as
// opaque; only the fingerprint participates in matching.
package catalog

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/crofthq/croft/internal/fingerprint"
)

// CurrentSchemaVersion is written to newly created contexts.
const CurrentSchemaVersion = 1

// Common errors.
var (
	ErrContextNotFound  = errors.New("context not found")
	ErrEmptyContextID   = errors.New("context ID cannot be empty")
	ErrEmptyContextName = errors.New("context name cannot be empty")
	ErrCorruptDocument  = errors.New("context document corrupted")
)

// Context is one persisted project profile.
type Context struct {
	// ID is the unique context identifier (UUID). Stable for the lifetime
	// of the context.
	ID string `json:"id"`

	// Name is the human-readable project name.
	Name string `json:"name"`

	// SchemaVersion tracks the document format.
	SchemaVersion int `json:"schema_version"`

	// Fingerprint is the reference fingerprint captured when the context
	// was created or last updated.
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`

	// Services, Database, and WorkflowDefaults are opaque to matching and
	// passed through unmodified to the environment layer.
	Services         json.RawMessage `json:"services,omitempty"`
	Database         json.RawMessage `json:"database,omitempty"`
	WorkflowDefaults json.RawMessage `json:"workflow_defaults,omitempty"`

	// Usage tracks selection history. UsageCount is monotonically
	// non-decreasing.
	Usage UsageMetadata `json:"usage"`
}

// UsageMetadata records when and how often a context has been selected.
type UsageMetadata struct {
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	UsageCount int       `json:"usage_count"`
}

// NewContext creates a context with a generated UUID around a reference
// fingerprint.
func NewContext(name string, fp fingerprint.Fingerprint) (*Context, error) {
	if name == "" {
		return nil, ErrEmptyContextName
	}

	now := time.Now().UTC()
	return &Context{
		ID:            uuid.New().String(),
		Name:          name,
		SchemaVersion: CurrentSchemaVersion,
		Fingerprint:   fp,
		Usage: UsageMetadata{
			CreatedAt:  now,
			LastUsedAt: now,
			UsageCount: 0,
		},
	}, nil
}

// Touch records a selection: increments the usage count and refreshes the
// last-used timestamp.
func (c *Context) Touch() {
	c.Usage.UsageCount++
	c.Usage.LastUsedAt = time.Now().UTC()
}

// Validate checks the context for structural errors.
func (c *Context) Validate() error {
	if c.ID == "" {
		return ErrEmptyContextID
	}
	if c.Name == "" {
		return ErrEmptyContextName
	}
	return nil
}
