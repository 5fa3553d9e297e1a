// Package persist saves and restores link network state in any of the
// registered codec formats.
package persist

import (
    "errors"
    "fmt"

    "github.com/mrdav30/Rimgate-sub001/pkg/link"
    "github.com/mrdav30/Rimgate-sub001/pkg/persist/codec"
)

// Version of the save document layout.
const Version = 1

var (
    ErrVersion = errors.New("persist: unsupported save version")
    ErrNoSlot  = errors.New("persist: no such slot")
    ErrSlot    = errors.New("persist: invalid slot name")
)

// document is what actually goes on disk.
type document struct {
    Version int               `json:"version"`
    Format  string            `json:"format"`
    State   link.NetworkState `json:"state"`
}

// Encode serializes st with c.
func Encode(c codec.Codec, st link.NetworkState) ([]byte, error) {
    b, err := c.Marshal(document{Version: Version, Format: c.Name(), State: st})
    if err != nil { return nil, fmt.Errorf("encode %s: %w", c.Name(), err) }
    return b, nil
}

// Decode parses data written by Encode with the same codec.
func Decode(c codec.Codec, data []byte) (link.NetworkState, error) {
    var doc document
    if err := c.Unmarshal(data, &doc); err != nil { return link.NetworkState{}, fmt.Errorf("decode %s: %w", c.Name(), err) }
    if doc.Version != Version { return link.NetworkState{}, fmt.Errorf("%w: %d", ErrVersion, doc.Version) }
    return doc.State, nil
}
