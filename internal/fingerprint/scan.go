package fingerprint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/crofthq/croft/internal/logging"
)

// manifestFile is the package manifest read during a scan.
const manifestFile = "package.json"

// Scanner produces fingerprints from project directories.
type Scanner struct {
	log *logging.Logger
}

// NewScanner creates a scanner. A nil logger falls back to a nop logger.
func NewScanner(log *logging.Logger) *Scanner {
	if log == nil {
		log = logging.NewNop()
	}
	return &Scanner{log: log}
}

// Scan inspects dir and returns its fingerprint. The only hard failure is
// an unreadable root directory; everything else degrades to "feature
// absent".
func (s *Scanner) Scan(ctx context.Context, dir string) (*Fingerprint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableRoot, dir, err)
	}

	fp := &Fingerprint{
		DirectoryTree: []string{},
		Frameworks:    []string{},
		Markers:       []string{},
		Files:         map[string]bool{},
	}

	if url := remoteURL(dir); url != "" {
		fp.RemoteURL = &url
	}

	fp.DirectoryTree = s.walkTwoLevels(ctx, dir, entries)
	fp.Manifest = s.readManifest(ctx, dir)

	for _, name := range composeFiles {
		if exists(filepath.Join(dir, name)) {
			fp.UsesCompose = true
			break
		}
	}

	fp.Frameworks = s.detectFrameworks(dir, fp.Manifest)

	for _, marker := range markerPaths {
		if exists(filepath.Join(dir, marker)) {
			fp.Markers = append(fp.Markers, marker)
		}
	}
	sort.Strings(fp.Markers)

	for _, name := range presenceFiles {
		fp.Files[name] = exists(filepath.Join(dir, name))
	}

	s.log.Debug(ctx, "scanned project directory",
		zap.String("dir", dir),
		zap.Int("tree_entries", len(fp.DirectoryTree)),
		zap.Strings("frameworks", fp.Frameworks),
		zap.Strings("markers", fp.Markers),
	)

	return fp, nil
}

// walkTwoLevels lists non-hidden directories at depth one and two. Depth is
// fixed to bound cost on large trees. Unreadable subdirectories are skipped.
func (s *Scanner) walkTwoLevels(ctx context.Context, dir string, entries []os.DirEntry) []string {
	tree := []string{}
	for _, entry := range entries {
		if !entry.IsDir() || skipHidden(entry.Name()) {
			continue
		}
		tree = append(tree, entry.Name())

		children, err := os.ReadDir(filepath.Join(dir, entry.Name()))
		if err != nil {
			s.log.Trace(ctx, "skipping unreadable subdirectory",
				zap.String("dir", entry.Name()), zap.Error(err))
			continue
		}
		for _, child := range children {
			if !child.IsDir() || skipHidden(child.Name()) {
				continue
			}
			tree = append(tree, entry.Name()+"/"+child.Name())
		}
	}
	sort.Strings(tree)
	return tree
}

// readManifest parses the package manifest. Absent or malformed manifests
// yield nil, never an error.
func (s *Scanner) readManifest(ctx context.Context, dir string) map[string]any {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil
	}
	var manifest map[string]any
	if err := json.Unmarshal(data, &manifest); err != nil {
		s.log.Debug(ctx, "ignoring malformed manifest",
			zap.String("dir", dir), zap.Error(err))
		return nil
	}
	return manifest
}

// detectFrameworks applies the static rule tables against the manifest's
// dependency sections and well-known files.
func (s *Scanner) detectFrameworks(dir string, manifest map[string]any) []string {
	found := map[string]bool{}

	for _, section := range []string{"dependencies", "devDependencies"} {
		deps, ok := manifest[section].(map[string]any)
		if !ok {
			continue
		}
		for name := range deps {
			if tag, ok := frameworkDependencyRules[name]; ok {
				found[tag] = true
			}
		}
	}

	for _, rule := range frameworkFileRules {
		if exists(filepath.Join(dir, rule.path)) {
			found[rule.tag] = true
		}
	}

	tags := make([]string, 0, len(found))
	for tag := range found {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// remoteURL returns the origin remote of the repository containing dir, or
// "" when dir is not a repository or has no origin.
func remoteURL(dir string) string {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return ""
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return ""
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}

func skipHidden(name string) bool {
	return strings.HasPrefix(name, ".") && !hiddenAllowList[name]
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
