// Package cache persists a sealed build (registry, type table, dispatch
// table) to disk, keyed by the combined ModuleHash of the module set
// that produced it. A hit lets cmd/somc skip Passes 1-4 entirely on an
// unchanged module set; a miss or a schema mismatch just means a normal
// resolve.Run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"somc/internal/dispatch"
	"somc/internal/project"
	"somc/internal/registry"
	"somc/internal/resolve"
	"somc/internal/types"
)

// schemaVersion guards against decoding a Payload written by an earlier,
// incompatible version of this package. Bump it whenever Payload's shape
// changes.
const schemaVersion uint16 = 1

// Payload is the on-disk shape of a cached build: a sealed registry and
// its backing type/dispatch tables, restorable into a resolve.Result
// without re-running any pass.
type Payload struct {
	Schema   uint16
	Registry registry.Snapshot
	Types    types.Snapshot
	Dispatch dispatch.Snapshot
}

// Key combines a module set's individual ModuleHashes into the single
// digest Disk.Put/Disk.Get index by. Callers pass hashes in the module graph's
// deterministic order (e.g. modgraph's topological order), never map
// iteration order, so the same module set always produces the same key.
func Key(moduleHashes []project.Digest) project.Digest {
	h := sha256.New()
	for _, d := range moduleHashes {
		_, _ = h.Write(d[:])
	}
	var out project.Digest
	copy(out[:], h.Sum(nil))
	return out
}

// ToPayload captures a resolve.Result for storage. r.Registry must
// already be sealed — ToPayload refuses to capture an open registry, since
// an open one is by definition mid-build and not a valid cache entry.
func ToPayload(r resolve.Result) (Payload, error) {
	if !r.Registry.Sealed() {
		return Payload{}, errors.New("cache: refusing to snapshot an unsealed registry")
	}
	return Payload{
		Schema:   schemaVersion,
		Registry: r.Registry.Snapshot(),
		Types:    r.Types.Snapshot(),
		Dispatch: r.Dispatch.Snapshot(),
	}, nil
}

// FromPayload rebuilds a resolve.Result from a Payload produced by
// ToPayload in a compatible schema version.
func FromPayload(p Payload) (resolve.Result, error) {
	if p.Schema != schemaVersion {
		return resolve.Result{}, fmt.Errorf("cache: schema %d unsupported, want %d", p.Schema, schemaVersion)
	}
	interner := types.Restore(p.Types)
	return resolve.Result{
		Registry: registry.Restore(p.Registry),
		Types:    interner,
		Dispatch: dispatch.Restore(p.Dispatch, interner),
	}, nil
}

// Disk is a thread-safe, content-addressed store of Payloads under a
// single directory, one file per Key. Concurrent Get/Put from parallel
// analyze invocations (e.g. a CI matrix) are safe.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a Disk cache rooted at dir, creating it if absent.
func Open(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: failed to create %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

func (c *Disk) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".mp")
}

// Put serializes payload and atomically writes it under key.
func (c *Disk) Put(key project.Digest, payload Payload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	f, err := os.CreateTemp(c.dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("cache: failed to create temp file: %w", err)
	}
	tmpName := f.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return fmt.Errorf("cache: failed to encode payload: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cache: failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		return fmt.Errorf("cache: failed to install %s: %w", p, err)
	}
	return nil
}

// Get deserializes the payload stored under key, reporting false (no
// error) when key has no entry.
func (c *Disk) Get(key project.Digest) (Payload, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Payload{}, false, nil
		}
		return Payload{}, false, fmt.Errorf("cache: failed to open entry: %w", err)
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return Payload{}, false, fmt.Errorf("cache: failed to decode entry: %w", err)
	}
	return payload, true, nil
}
