package codec

import (
    "bytes"

    "github.com/vmihailenco/msgpack/v5"
)

type msgpackCodec struct{}

// Msgpack returns a MessagePack codec keyed by json tags.
func Msgpack() Codec { return msgpackCodec{} }

func (msgpackCodec) Name() string        { return "msgpack" }
func (msgpackCodec) ContentType() string { return "application/msgpack" }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
    var buf bytes.Buffer
    enc := msgpack.NewEncoder(&buf)
    enc.SetCustomStructTag("json")
    enc.SetSortMapKeys(true)
    enc.UseCompactInts(true)
    if err := enc.Encode(v); err != nil { return nil, err }
    return buf.Bytes(), nil
}

func (msgpackCodec) Unmarshal(data []byte, v any) error {
    dec := msgpack.NewDecoder(bytes.NewReader(data))
    dec.SetCustomStructTag("json")
    return dec.Decode(v)
}
