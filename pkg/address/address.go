// Package address defines world addresses able to host a link endpoint and
// the process-wide registry of addresses currently backed by a live endpoint.
package address

import (
    "fmt"
    "strconv"
    "strings"
)

// Address is an opaque identifier of a world location. The zero value is the
// invalid sentinel None.
type Address int32

// None marks an absent or invalid address.
const None Address = 0

// Valid reports whether a is not the None sentinel.
func (a Address) Valid() bool { return a > None }

func (a Address) String() string {
    if !a.Valid() { return "addr:none" }
    return "addr:" + strconv.FormatInt(int64(a), 10)
}

// Parse accepts both the bare numeric form ("12") and the String form ("addr:12").
func Parse(s string) (Address, error) {
    s = strings.TrimPrefix(strings.TrimSpace(s), "addr:")
    n, err := strconv.ParseInt(s, 10, 32)
    if err != nil { return None, fmt.Errorf("parse address %q: %w", s, err) }
    a := Address(n)
    if !a.Valid() { return None, fmt.Errorf("parse address %q: not a valid address", s) }
    return a, nil
}
