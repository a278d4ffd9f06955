package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"hereafter/internal/diag"
	"hereafter/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 2

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache keeps transform results on disk, keyed by source content and
// the options fingerprint. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedNote mirrors diag.Note without the file ID.
type CachedNote struct {
	Start, End uint32
	Msg        string
}

// CachedDiagnostic mirrors diag.Diagnostic without the file ID, which is
// only meaningful inside one FileSet.
type CachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Start, End uint32
	Notes      []CachedNote
}

// DiskPayload is one cached FileResult.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	Output      []byte
	Changed     bool
	CutFuncs    int
	JumpFuncs   int
	Diagnostics []CachedDiagnostic
}

// OpenDiskCache opens dir, creating it. An empty dir selects
// $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func OpenDiskCache(dir, app string) (*DiskCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *DiskCache) Dir() string { return c.dir }

// CacheKey combines the content hash with the options fingerprint.
func CacheKey(content [32]byte, fingerprint Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	_, _ = h.Write(fingerprint[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// Fingerprint hashes everything in opts that changes the output.
// Timings and the diagnostics cap are excluded.
func Fingerprint(opts Options) (Digest, error) {
	v := opts.vocabulary()
	key := struct {
		Schema     uint16
		Vocabulary []string
		Pad        bool
		Transitive bool
		Fall       uint8
		Returns    uint8
		SkipCut    bool
		SkipJump   bool
		Indent     int
		Tabs       bool
	}{
		Schema:     diskCacheSchemaVersion,
		Vocabulary: []string{v.CutName, v.CutModule, v.LabelName, v.GotoName, v.GotoModule},
		Pad:        opts.Cut.Pad,
		Transitive: opts.Cut.Transitive,
		Fall:       uint8(opts.Jump.Fallthrough),
		Returns:    uint8(opts.Jump.Returns),
		SkipCut:    opts.SkipCut,
		SkipJump:   opts.SkipJump,
		Indent:     opts.Format.IndentWidth,
		Tabs:       opts.Format.UseTabs,
	}
	data, err := msgpack.Marshal(&key)
	if err != nil {
		return Digest{}, err
	}
	return sha256.Sum256(data), nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// два уровня каталогов, чтобы не держать тысячи файлов в одном
	return filepath.Join(c.dir, "files", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	// после Rename файла уже нет, ошибку удаления игнорируем
	defer func() { _ = os.Remove(f.Name()) }()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload. A payload written by another
// schema version counts as a miss.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("cache entry %x: %w", key[:4], err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// toPayload strips file IDs from res.
func toPayload(res *FileResult) *DiskPayload {
	p := &DiskPayload{
		Path:      res.Path,
		Output:    res.Output,
		Changed:   res.Changed,
		CutFuncs:  res.CutFuncs,
		JumpFuncs: res.JumpFuncs,
	}
	for _, d := range res.Bag.Without(diag.ObsTimings).Items() {
		cd := CachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// fromPayload rebuilds a FileResult anchored at file.
func fromPayload(p *DiskPayload, file source.FileID, maxDiag int) *FileResult {
	bag := diag.NewBag(max(maxDiag, len(p.Diagnostics)))
	for _, cd := range p.Diagnostics {
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code),
			source.Span{File: file, Start: cd.Start, End: cd.End}, cd.Message)
		for _, n := range cd.Notes {
			d = d.WithNote(source.Span{File: file, Start: n.Start, End: n.End}, n.Msg)
		}
		bag.Add(d)
	}
	return &FileResult{
		Path:      p.Path,
		FileID:    file,
		Output:    p.Output,
		Changed:   p.Changed,
		CutFuncs:  p.CutFuncs,
		JumpFuncs: p.JumpFuncs,
		Bag:       bag,
		Cached:    true,
	}
}
