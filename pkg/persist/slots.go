package persist

import (
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "sort"
    "strings"
    "sync"
    "time"

    "go.uber.org/zap"

    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/persist/codec"
)

// SlotStore keeps named saves in memory and, when dir is set, writes each
// one through to <dir>/<name>.<format>.
type SlotStore struct {
    mu     sync.RWMutex
    codecs *codec.Registry
    format codec.Codec
    dir    string
    slots  map[string]slot
}

type slot struct {
    format string
    data   []byte
    saved  time.Time
    tick   uint64
}

// SlotInfo describes one stored save.
type SlotInfo struct {
    Name    string
    Format  string
    Size    int
    Tick    uint64
    SavedAt time.Time
}

// NewSlotStore writes new saves with format. An empty dir keeps saves in
// memory only.
func NewSlotStore(codecs *codec.Registry, format, dir string) (*SlotStore, error) {
    c, err := codecs.Lookup(format)
    if err != nil { return nil, err }
    if dir != "" {
        if err := os.MkdirAll(dir, 0o755); err != nil { return nil, fmt.Errorf("slot dir: %w", err) }
    }
    return &SlotStore{codecs: codecs, format: c, dir: dir, slots: make(map[string]slot)}, nil
}

// Format is the codec new saves are written with.
func (s *SlotStore) Format() string { return s.format.Name() }

func checkName(name string) error {
    if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
        return fmt.Errorf("%w: %q", ErrSlot, name)
    }
    return nil
}

func (s *SlotStore) path(name, format string) string { return filepath.Join(s.dir, name+"."+format) }

// Save encodes st into slot name, replacing what was there.
func (s *SlotStore) Save(name string, st link.NetworkState) error {
    if err := checkName(name); err != nil { return err }
    b, err := Encode(s.format, st)
    if err != nil { return err }

    s.mu.Lock()
    defer s.mu.Unlock()
    if s.dir != "" {
        // drop copies in other formats so Load never picks a stale one
        for _, f := range s.codecs.Names() {
            if f != s.format.Name() { _ = os.Remove(s.path(name, f)) }
        }
        tmp := s.path(name, s.format.Name()) + ".tmp"
        if err := os.WriteFile(tmp, b, 0o644); err != nil { return fmt.Errorf("write slot %s: %w", name, err) }
        if err := os.Rename(tmp, s.path(name, s.format.Name())); err != nil { return fmt.Errorf("write slot %s: %w", name, err) }
    }
    s.slots[name] = slot{format: s.format.Name(), data: b, saved: time.Now(), tick: st.Tick}
    zap.L().Info("state saved", zap.String("slot", name), zap.String("format", s.format.Name()), zap.Int("bytes", len(b)), zap.Uint64("tick", st.Tick))
    return nil
}

// Load decodes slot name. Slots not seen in this process are looked up in
// dir in any known format.
func (s *SlotStore) Load(name string) (link.NetworkState, error) {
    if err := checkName(name); err != nil { return link.NetworkState{}, err }
    sl, ok := s.lookup(name)
    if !ok { return link.NetworkState{}, fmt.Errorf("%w: %s", ErrNoSlot, name) }
    c := s.codecs.Get(sl.format)
    if c == nil { return link.NetworkState{}, fmt.Errorf("slot %s: unknown format %q", name, sl.format) }
    st, err := Decode(c, sl.data)
    if err != nil { return link.NetworkState{}, fmt.Errorf("slot %s: %w", name, err) }
    zap.L().Info("state loaded", zap.String("slot", name), zap.String("format", sl.format), zap.Uint64("tick", st.Tick))
    return st, nil
}

func (s *SlotStore) lookup(name string) (slot, bool) {
    s.mu.RLock()
    sl, ok := s.slots[name]
    s.mu.RUnlock()
    if ok || s.dir == "" { return sl, ok }

    for _, f := range s.codecs.Names() {
        p := s.path(name, f)
        b, err := os.ReadFile(p)
        if errors.Is(err, fs.ErrNotExist) { continue }
        if err != nil {
            zap.L().Warn("slot read failed", zap.String("path", p), zap.Error(err))
            continue
        }
        sl = slot{format: f, data: b}
        if fi, err := os.Stat(p); err == nil { sl.saved = fi.ModTime() }
        s.mu.Lock(); s.slots[name] = sl; s.mu.Unlock()
        return sl, true
    }
    return slot{}, false
}

// Delete removes slot name from memory and disk.
func (s *SlotStore) Delete(name string) error {
    if err := checkName(name); err != nil { return err }
    s.mu.Lock()
    defer s.mu.Unlock()
    _, ok := s.slots[name]
    delete(s.slots, name)
    if s.dir != "" {
        for _, f := range s.codecs.Names() {
            if err := os.Remove(s.path(name, f)); err == nil { ok = true }
        }
    }
    if !ok { return fmt.Errorf("%w: %s", ErrNoSlot, name) }
    return nil
}

// List describes the slots saved or loaded by this store, sorted by name.
func (s *SlotStore) List() []SlotInfo {
    s.mu.RLock()
    defer s.mu.RUnlock()
    out := make([]SlotInfo, 0, len(s.slots))
    for name, sl := range s.slots {
        out = append(out, SlotInfo{Name: name, Format: sl.format, Size: len(sl.data), Tick: sl.tick, SavedAt: sl.saved})
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
    return out
}
