package resolver

import (
	"strings"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/platform"
	"golang.org/x/sync/singleflight"
)

var _ Planner = (*Memo)(nil)

type memoResult struct {
	descriptor domain.BuildDescriptor
	err        error
}

// Memo caches resolutions for the lifetime of an evaluation session.
//
// Each key is computed at most once: concurrent callers for the same key share one
// in-flight computation, and later callers get the cached result. Failures are cached
// too, since resolution is deterministic.
type Memo struct {
	planner Planner

	group   singleflight.Group
	mu      sync.RWMutex
	results map[string]memoResult
}

// NewMemo wraps planner with a session cache.
func NewMemo(planner Planner) *Memo {
	return &Memo{
		planner: planner,
		results: make(map[string]memoResult),
	}
}

// Resolve returns the cached descriptor for the inputs, computing it on first use.
func (m *Memo) Resolve(
	scope *platform.Scope,
	src domain.SourceTree,
	lock *domain.Lockfile,
	name, version string,
) (domain.BuildDescriptor, error) {
	key := memoKey(scope.Platform(), src.Digest, lock.Digest, name, version)

	if res, ok := m.lookup(key); ok {
		return res.descriptor, res.err
	}

	v, _, _ := m.group.Do(key, func() (any, error) {
		if res, ok := m.lookup(key); ok {
			return res, nil
		}

		d, err := m.planner.Resolve(scope, src, lock, name, version)
		res := memoResult{descriptor: d, err: err}

		m.mu.Lock()
		m.results[key] = res
		m.mu.Unlock()

		return res, nil
	})

	res := v.(memoResult)
	return res.descriptor, res.err
}

// Len returns the number of cached resolutions.
func (m *Memo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

func (m *Memo) lookup(key string) (memoResult, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.results[key]
	return res, ok
}

func memoKey(p domain.PlatformID, sourceDigest, lockDigest, name, version string) string {
	return strings.Join([]string{p.String(), sourceDigest, lockDigest, name, version}, "\x00")
}
