// Package fingerprint inspects a project directory and produces a structural
// summary used for identity comparison.
//
// A fingerprint is not a hash: it records the directory shape, the parsed
// package manifest, detected frameworks, and high-signal convention markers.
// Scanning is strictly read-only and never fails because a repository,
// manifest, or subdirectory happens to be absent or unreadable.
package fingerprint

import (
	"errors"
)

// ErrUnreadableRoot is returned when the scan root itself cannot be read.
// Unreadable subdirectories are skipped, not errors.
var ErrUnreadableRoot = errors.New("project directory is not readable")

// Fingerprint is the structural summary of a project directory. It is
// derived and ephemeral: recomputed on every invocation, never persisted on
// its own (a catalog context embeds the reference copy captured at
// registration time).
type Fingerprint struct {
	// RemoteURL is the origin remote if the directory is under version
	// control. Nil means "not a repository or no origin", which is a valid
	// state rather than an error.
	RemoteURL *string `json:"remote_url,omitempty"`

	// DirectoryTree is a two-level-deep listing of non-hidden directories,
	// lexically sorted. Entries are "name" and "name/child". Used only for
	// structural comparison.
	DirectoryTree []string `json:"directory_tree"`

	// Manifest is the parsed package manifest, nil when absent or
	// malformed.
	Manifest map[string]any `json:"manifest,omitempty"`

	// UsesCompose reports whether a container compose file exists.
	UsesCompose bool `json:"uses_compose"`

	// Frameworks are normalized technology tags, sorted.
	Frameworks []string `json:"frameworks"`

	// Markers are convention files/directories found, sorted. These are the
	// highest-signal identity markers: they rarely coincide across
	// unrelated projects.
	Markers []string `json:"markers"`

	// Files flags the presence of a fixed list of well-known files.
	Files map[string]bool `json:"files"`
}

// HasFramework reports whether a framework tag was detected.
func (f *Fingerprint) HasFramework(tag string) bool {
	for _, t := range f.Frameworks {
		if t == tag {
			return true
		}
	}
	return false
}

// HasMarker reports whether a convention marker was found.
func (f *Fingerprint) HasMarker(marker string) bool {
	for _, m := range f.Markers {
		if m == marker {
			return true
		}
	}
	return false
}

// Remote returns the remote URL and whether one was recorded.
func (f *Fingerprint) Remote() (string, bool) {
	if f.RemoteURL == nil {
		return "", false
	}
	return *f.RemoteURL, true
}
