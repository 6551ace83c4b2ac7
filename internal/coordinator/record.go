// Package coordinator guards the component dependency graph: it rejects
// prospective imports that would close a cycle, registers components after
// creation, and evaluates completion criteria.
package coordinator

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Common errors.
var (
	ErrComponentNotFound = errors.New("unknown component")
	ErrEmptyPath         = errors.New("component path cannot be empty")
	ErrEmptyName         = errors.New("component name cannot be empty")
)

// ComponentRecord is the registration payload submitted once after a
// component is produced. It is stored verbatim into the graph's node entry
// and referenced again during completion evaluation.
type ComponentRecord struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Imports []string `json:"imports"`
	Exports []string `json:"exports"`
	Tests   []string `json:"tests"`
}

// Validate checks the record for structural errors.
func (r *ComponentRecord) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	if r.Path == "" {
		return ErrEmptyPath
	}
	return nil
}

// ReviewRecord is the externally recorded design-review flag for a
// component.
type ReviewRecord struct {
	Component  string    `json:"component"`
	Approved   bool      `json:"approved"`
	Reviewer   string    `json:"reviewer,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// CycleError reports that a prospective import set would close a cycle. It
// names every hop of a discoverable walk from the candidate back to itself.
type CycleError struct {
	// Walk is the offending path chain, first and last entries equal.
	Walk []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Walk, " -> "))
}

// Completion check names.
const (
	CheckHasTests            = "has_tests"
	CheckNoCycles            = "no_cycles"
	CheckDesignReview        = "design_review"
	CheckExportsDefined      = "exports_defined"
	CheckIntegrationVerified = "integration_verified"
)

// CompletionReport maps check name to outcome. The evaluator never fails a
// call because checks fail; callers decide whether a failing set is fatal.
type CompletionReport map[string]bool

// Passed reports whether every check succeeded.
func (r CompletionReport) Passed() bool {
	for _, ok := range r {
		if !ok {
			return false
		}
	}
	return true
}

// Failing returns the names of failed checks, sorted.
func (r CompletionReport) Failing() []string {
	var failed []string
	for name, ok := range r {
		if !ok {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// BlockedError is raised by callers that treat a failing check set as
// fatal.
type BlockedError struct {
	Component string
	Report    CompletionReport
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("component %s blocked: failing checks: %s",
		e.Component, strings.Join(e.Report.Failing(), ", "))
}
