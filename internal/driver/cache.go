package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"sigil/internal/diag"
	"sigil/internal/project"
	"sigil/internal/source"
)

// Current schema version - increment when snapshotPayload format changes
const snapshotSchemaVersion uint16 = 1

// Digest keys cache entries: sha256 over file content plus the manifest
// fingerprint, so touching sigil.toml invalidates everything.
type Digest [32]byte

// SnapshotCache stores per-file check results on disk.
// Thread-safe for concurrent access.
type SnapshotCache struct {
	mu  sync.RWMutex
	dir string
}

type cachedLine struct {
	Line  uint32
	Text  string
	Label string
}

type cachedDiag struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
}

// snapshotPayload is the serialized form of one Result.
type snapshotPayload struct {
	Schema uint16
	Lines  []cachedLine
	Diags  []cachedDiag
}

// OpenSnapshotCache initializes the cache at the standard location.
func OpenSnapshotCache(app string) (*SnapshotCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotCache{dir: dir}, nil
}

// OpenSnapshotCacheAt initializes the cache at an explicit directory.
func OpenSnapshotCacheAt(dir string) (*SnapshotCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotCache{dir: dir}, nil
}

// Key derives the cache key for one file under one manifest.
func (c *SnapshotCache) Key(fileHash [32]byte, m project.Manifest) Digest {
	h := sha256.New()
	var schema [2]byte
	schema[0] = byte(snapshotSchemaVersion >> 8)
	schema[1] = byte(snapshotSchemaVersion)
	h.Write(schema[:])
	h.Write(fileHash[:])
	for _, class := range m.Symbols.Classes {
		h.Write([]byte("c\x00" + class + "\x00"))
	}
	aliases := make([]string, 0, len(m.Symbols.Aliases))
	for name := range m.Symbols.Aliases {
		aliases = append(aliases, name)
	}
	sort.Strings(aliases)
	for _, name := range aliases {
		h.Write([]byte("a\x00" + name + "\x00" + m.Symbols.Aliases[name] + "\x00"))
	}
	var key Digest
	h.Sum(key[:0])
	return key
}

func (c *SnapshotCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Подкаталог "files" — чтобы каталог кеша было удобно чистить.
	return filepath.Join(c.dir, "files", hexKey+".mp")
}

// Put serializes and writes a result to the disk cache.
func (c *SnapshotCache) Put(key Digest, res *Result) error {
	if c == nil || res == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := snapshotPayload{Schema: snapshotSchemaVersion}
	for _, line := range res.Lines {
		payload.Lines = append(payload.Lines, cachedLine{Line: line.Line, Text: line.Text, Label: line.Label})
	}
	for _, d := range res.Bag.Items() {
		payload.Diags = append(payload.Diags, cachedDiag{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		})
	}

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(&payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads a cached result back. Spans are rebound to fileID since the
// payload stores offsets only. A schema mismatch is a miss, not an error.
func (c *SnapshotCache) Get(key Digest, path string, fileID source.FileID, maxDiagnostics int) (*Result, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload snapshotPayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("%s: corrupt cache entry: %w", path, err)
	}
	if payload.Schema != snapshotSchemaVersion {
		return nil, false, nil
	}

	bag := diag.NewBag(maxDiagnostics)
	for _, d := range payload.Diags {
		bag.Add(diag.Diagnostic{
			Severity: diag.Severity(d.Severity),
			Code:     diag.Code(d.Code),
			Message:  d.Message,
			Primary:  source.Span{File: fileID, Start: d.Start, End: d.End},
		})
	}
	res := &Result{Path: path, FileID: fileID, Bag: bag, FromCache: true}
	for _, line := range payload.Lines {
		res.Lines = append(res.Lines, LineResult{Line: line.Line, Text: line.Text, Label: line.Label})
	}
	return res, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *SnapshotCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим целиком
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
