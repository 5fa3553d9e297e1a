package codec

import (
    cbor "github.com/fxamacker/cbor/v2"
)

type cborCodec struct{ enc cbor.EncMode; dec cbor.DecMode }

// CBOR returns a canonical CBOR codec that refuses duplicate map keys and
// indefinite lengths on decode. Struct fields without a cbor tag fall back
// to their json tag.
func CBOR() (Codec, error) {
    em, err := cbor.CanonicalEncOptions().EncMode()
    if err != nil { return nil, err }
    dm, err := cbor.DecOptions{
        DupMapKey:   cbor.DupMapKeyEnforcedAPF,
        IndefLength: cbor.IndefLengthForbidden,
    }.DecMode()
    if err != nil { return nil, err }
    return cborCodec{enc: em, dec: dm}, nil
}

func (c cborCodec) Name() string        { return "cbor" }
func (c cborCodec) ContentType() string { return "application/cbor" }
func (c cborCodec) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }
func (c cborCodec) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }
