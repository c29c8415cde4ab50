package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceScanner = (*Scanner)(nil)

// DefaultIgnores are build output directories that never belong to a source tree.
var DefaultIgnores = []string{"target", "node_modules", "result"}

// Scanner snapshots source directories.
type Scanner struct {
	walker  *Walker
	ignores []string
}

// NewScanner creates a Scanner skipping the given patterns in addition to VCS metadata.
func NewScanner(walker *Walker, ignores ...string) *Scanner {
	return &Scanner{walker: walker, ignores: ignores}
}

// Scan walks root and returns its sorted file list and content digest.
//
// The digest covers every file's relative path and xxhash content hash, so it
// changes when a file is added, removed, renamed or edited.
func (s *Scanner) Scan(root string) (domain.SourceTree, error) {
	info, err := os.Stat(root)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrSourceScanFailed.Error())
		return domain.SourceTree{}, zerr.With(err, "source", root)
	}
	if !info.IsDir() {
		err = zerr.With(domain.ErrInvalidSource, "source", root)
		return domain.SourceTree{}, zerr.With(err, "reason", "not a directory")
	}

	hashes := make(map[string]uint64)
	for path, walkErr := range s.walker.WalkFiles(root, s.ignores) {
		if walkErr != nil {
			err = zerr.Wrap(walkErr, domain.ErrSourceScanFailed.Error())
			return domain.SourceTree{}, zerr.With(err, "source", root)
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return domain.SourceTree{}, zerr.Wrap(relErr, domain.ErrSourceScanFailed.Error())
		}

		sum, hashErr := s.hashFile(path)
		if hashErr != nil {
			return domain.SourceTree{}, hashErr
		}
		hashes[filepath.ToSlash(rel)] = sum
	}

	files := make([]string, 0, len(hashes))
	for rel := range hashes {
		files = append(files, rel)
	}
	slices.Sort(files)

	var manifest strings.Builder
	for _, rel := range files {
		fmt.Fprintf(&manifest, "%s\x00%016x\n", rel, hashes[rel])
	}

	return domain.SourceTree{
		Root:   root,
		Digest: digest.FromString(manifest.String()).String(),
		Files:  files,
	}, nil
}

// hashFile computes the xxhash of a file's content.
func (s *Scanner) hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path comes from walking the source root
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrSourceScanFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrSourceScanFailed.Error()), "path", path)
	}
	return hasher.Sum64(), nil
}
