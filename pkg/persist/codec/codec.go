// Package codec encodes saved link state. Every codec reads the `json`
// struct tags so one set of tags serves all formats.
package codec

import (
    "fmt"
    "sort"
    "strings"
)

// Codec marshals snapshot values. Implementations must be deterministic for
// equal inputs so saves can be diffed.
type Codec interface {
    // Name is the short format name used in config, e.g. "cbor".
    Name() string
    ContentType() string
    Marshal(v any) ([]byte, error)
    Unmarshal(data []byte, v any) error
}

// Registry maps format names and content types to codecs.
type Registry struct { byKey map[string]Codec }

// NewRegistry returns a registry holding every built-in codec.
func NewRegistry() (*Registry, error) {
    r := &Registry{byKey: make(map[string]Codec)}
    r.Register(JSON())
    r.Register(Proto())
    r.Register(Msgpack())
    cb, err := CBOR()
    if err != nil { return nil, fmt.Errorf("cbor codec: %w", err) }
    r.Register(cb)
    return r, nil
}

// Register adds c under its name and content type.
func (r *Registry) Register(c Codec) {
    r.byKey[strings.ToLower(c.Name())] = c
    r.byKey[strings.ToLower(c.ContentType())] = c
}

// Get returns the codec for a name or content type, or nil.
func (r *Registry) Get(key string) Codec { return r.byKey[strings.ToLower(strings.TrimSpace(key))] }

// Lookup is Get with an error naming the known formats.
func (r *Registry) Lookup(key string) (Codec, error) {
    if c := r.Get(key); c != nil { return c, nil }
    return nil, fmt.Errorf("unknown format %q (known: %s)", key, strings.Join(r.Names(), ", "))
}

// Names lists the registered short names, sorted.
func (r *Registry) Names() []string {
    seen := make(map[string]bool)
    var out []string
    for _, c := range r.byKey {
        if seen[c.Name()] { continue }
        seen[c.Name()] = true
        out = append(out, c.Name())
    }
    sort.Strings(out)
    return out
}
