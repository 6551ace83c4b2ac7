package matcher

import (
	"math"
	"reflect"
	"regexp"
	"strings"

	"github.com/crofthq/croft/internal/fingerprint"
)

// matchRemoteURL treats the candidate's stored remote as a glob pattern
// (`*` and `?` wildcards) and matches the observed remote case-insensitively.
func matchRemoteURL(candidate, observed *fingerprint.Fingerprint) bool {
	pattern, ok := candidate.Remote()
	if !ok {
		return false
	}
	remote, ok := observed.Remote()
	if !ok {
		return false
	}
	re, err := compileGlob(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(remote)
}

// compileGlob translates a glob pattern into an anchored case-insensitive
// regexp. Everything but `*` and `?` is matched literally.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?i)^")
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// matchManifest compares manifest structure. A candidate declaring a
// workspace layout matches only on exact structural equality; otherwise a
// candidate declaring expected dependencies matches when all of them appear
// in the observed manifest as runtime or development dependencies.
func matchManifest(candidate, observed *fingerprint.Fingerprint) bool {
	if candidate.Manifest == nil || observed.Manifest == nil {
		return false
	}

	if workspaces, ok := candidate.Manifest["workspaces"]; ok {
		return reflect.DeepEqual(workspaces, observed.Manifest["workspaces"])
	}

	expected := dependencyNames(candidate.Manifest)
	if len(expected) == 0 {
		return false
	}
	available := dependencyNames(observed.Manifest)
	for name := range expected {
		if !available[name] {
			return false
		}
	}
	return true
}

// dependencyNames collects runtime and development dependency names.
func dependencyNames(manifest map[string]any) map[string]bool {
	names := map[string]bool{}
	for _, section := range []string{"dependencies", "devDependencies"} {
		deps, ok := manifest[section].(map[string]any)
		if !ok {
			continue
		}
		for name := range deps {
			names[name] = true
		}
	}
	return names
}

// matchMarkers requires at least 70% (rounded up) of the candidate's
// distinguishing markers to be present in the observed fingerprint.
func matchMarkers(candidate, observed *fingerprint.Fingerprint) bool {
	if len(candidate.Markers) == 0 {
		return false
	}

	found := 0
	for _, marker := range candidate.Markers {
		if observed.HasMarker(marker) {
			found++
		}
	}

	required := int(math.Ceil(markerThreshold * float64(len(candidate.Markers))))
	return found >= required
}

// matchDirectories measures how much of the candidate's expected directory
// structure is reproduced in the observed tree. The measure is asymmetric
// and zero when the candidate declares no directories.
func matchDirectories(candidate, observed *fingerprint.Fingerprint) bool {
	return directorySimilarity(candidate, observed) > directoryThreshold
}

// directorySimilarity is |candidate ∩ observed| / |candidate|.
func directorySimilarity(candidate, observed *fingerprint.Fingerprint) float64 {
	if len(candidate.DirectoryTree) == 0 {
		return 0
	}

	observedSet := make(map[string]bool, len(observed.DirectoryTree))
	for _, dir := range observed.DirectoryTree {
		observedSet[dir] = true
	}

	shared := 0
	for _, dir := range candidate.DirectoryTree {
		if observedSet[dir] {
			shared++
		}
	}
	return float64(shared) / float64(len(candidate.DirectoryTree))
}
