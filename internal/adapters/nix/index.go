// Package nix implements the PackageIndex port by resolving package versions via NixHub.
package nix

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	nixHubAPIBase     = "https://search.devbox.sh/v2/resolve"
	httpClientTimeout = 30 * time.Second

	// SourceNixHub marks lock entries pinned through NixHub.
	SourceNixHub = "nixhub"
)

var _ ports.PackageIndex = (*Index)(nil)

// Index implements ports.PackageIndex using the NixHub API with a local cache.
type Index struct {
	cacheDir   string
	baseURL    string
	httpClient *http.Client
	systems    domain.PlatformSet
}

// NewIndex creates a new PackageIndex backed by NixHub that pins the given systems.
// The cache directory is created on first write.
func NewIndex(cacheDir string, systems domain.PlatformSet) *Index {
	return NewIndexWithClient(cacheDir, systems, &http.Client{Timeout: httpClientTimeout})
}

// NewIndexWithClient creates an Index with a custom HTTP client.
func NewIndexWithClient(cacheDir string, systems domain.PlatformSet, client *http.Client) *Index {
	return &Index{
		cacheDir:   filepath.Clean(cacheDir),
		baseURL:    nixHubAPIBase,
		httpClient: client,
		systems:    systems,
	}
}

// Lookup resolves name@version to a lock entry pinned for every system NixHub publishes it on.
// Systems outside the index's set are dropped. The cache is consulted before the API.
func (i *Index) Lookup(ctx context.Context, name, version string) (*domain.LockedPackage, error) {
	cachePath := i.cachePath(name, version)

	entry, err := i.loadFromCache(cachePath)
	if err != nil {
		resp, queryErr := i.query(ctx, name, version)
		if queryErr != nil {
			return nil, queryErr
		}
		entry = i.toCacheEntry(name, version, resp)

		// A cache write failure only costs a future API call.
		_ = i.saveToCache(cachePath, entry)
	}

	pkg := &domain.LockedPackage{
		Name:    domain.NewInternedString(name),
		Version: domain.NewInternedString(version),
		Source:  SourceNixHub,
		Systems: make(map[domain.PlatformID]domain.Pin, len(entry.Systems)),
	}
	for system, data := range entry.Systems {
		id := domain.PlatformID(system)
		if !i.systems.Contains(id) {
			continue
		}
		ref := data.FlakeInstallable.Ref
		pkg.Systems[id] = domain.Pin{
			Owner:    domain.NewInternedString(ref.Owner),
			Repo:     domain.NewInternedString(ref.Repo),
			Rev:      domain.NewInternedString(ref.Rev),
			Hash:     domain.NewInternedString(defaultNar(data.Outputs)),
			AttrPath: domain.NewInternedString(data.FlakeInstallable.AttrPath),
		}
	}

	if len(pkg.Systems) == 0 {
		err := zerr.With(domain.ErrNixPackageNotFound, "package", name)
		return nil, zerr.With(err, "version", version)
	}

	return pkg, nil
}

func defaultNar(outputs []Output) string {
	for _, o := range outputs {
		if o.Default {
			return o.Nar
		}
	}
	if len(outputs) > 0 {
		return outputs[0].Nar
	}
	return ""
}

// getHash generates a SHA-256 hash from a package name and version.
func getHash(name, version string) string {
	hash := sha256.Sum256([]byte(domain.PackageKey(name, version)))
	return hex.EncodeToString(hash[:])
}

func (i *Index) cachePath(name, version string) string {
	return filepath.Join(i.cacheDir, getHash(name, version)+".json")
}

func (i *Index) loadFromCache(path string) (*cacheEntry, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNixCacheReadFailed
		}
		return nil, zerr.Wrap(err, domain.ErrNixCacheReadFailed.Error())
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixCacheUnmarshalFailed.Error())
	}
	return &entry, nil
}

func (i *Index) toCacheEntry(name, version string, resp *NixHubResponse) *cacheEntry {
	systems := make(map[string]SystemCache, len(resp.Systems))
	for system, data := range resp.Systems {
		systems[system] = SystemCache{
			FlakeInstallable: data.FlakeInstallable,
			Outputs:          data.Outputs,
		}
	}
	return &cacheEntry{
		Name:      name,
		Version:   version,
		Systems:   systems,
		Timestamp: time.Now(),
	}
}

func (i *Index) saveToCache(path string, entry *cacheEntry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrNixCacheMarshalFailed.Error())
	}

	if err := atomicWriteFile(path, data); err != nil {
		return zerr.Wrap(err, domain.ErrNixCacheWriteFailed.Error())
	}
	return nil
}

// atomicWriteFile writes data to a file atomically by writing to a temp file and renaming it.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "nixhub-cache-*.json")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// query asks the NixHub API to resolve a package version.
func (i *Index) query(ctx context.Context, name, version string) (*NixHubResponse, error) {
	endpoint := fmt.Sprintf("%s?name=%s&version=%s", i.baseURL, url.QueryEscape(name), url.QueryEscape(version))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixAPIRequestFailed.Error())
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixAPIRequestFailed.Error())
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close in defer

	if resp.StatusCode == http.StatusNotFound {
		notFoundErr := zerr.With(domain.ErrNixPackageNotFound, "package", name)
		return nil, zerr.With(notFoundErr, "version", version)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := zerr.With(domain.ErrNixAPIRequestFailed, "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "package", name)
		return nil, zerr.With(apiErr, "version", version)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixAPIRequestFailed.Error())
	}

	var apiResp NixHubResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, zerr.Wrap(err, domain.ErrNixAPIParseFailed.Error())
	}

	if len(apiResp.Systems) == 0 {
		noSystemsErr := zerr.With(domain.ErrNixPackageNotFound, "package", name)
		return nil, zerr.With(noSystemsErr, "version", version)
	}

	return &apiResp, nil
}
