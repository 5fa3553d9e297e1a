package codec

import (
    "encoding/json"
    "fmt"

    "google.golang.org/protobuf/proto"
    "google.golang.org/protobuf/types/known/structpb"
)

type protoCodec struct {
    mo proto.MarshalOptions
    uo proto.UnmarshalOptions
}

// Proto returns a deterministic Protocol Buffers codec. proto.Message values
// are written as-is; anything else goes through its json form into a
// google.protobuf.Value. Numbers then travel as doubles, which is exact for
// the tick counters and addresses a save holds.
func Proto() Codec {
    return protoCodec{
        mo: proto.MarshalOptions{Deterministic: true},
        uo: proto.UnmarshalOptions{DiscardUnknown: true},
    }
}

func (p protoCodec) Name() string        { return "proto" }
func (p protoCodec) ContentType() string { return "application/x-protobuf" }

func (p protoCodec) Marshal(v any) ([]byte, error) {
    if msg, ok := v.(proto.Message); ok { return p.mo.Marshal(msg) }
    raw, err := json.Marshal(v)
    if err != nil { return nil, fmt.Errorf("protobuf: %w", err) }
    var generic any
    if err := json.Unmarshal(raw, &generic); err != nil { return nil, fmt.Errorf("protobuf: %w", err) }
    val, err := structpb.NewValue(generic)
    if err != nil { return nil, fmt.Errorf("protobuf: %T: %w", v, err) }
    return p.mo.Marshal(val)
}

func (p protoCodec) Unmarshal(data []byte, v any) error {
    if msg, ok := v.(proto.Message); ok { return p.uo.Unmarshal(data, msg) }
    var val structpb.Value
    if err := p.uo.Unmarshal(data, &val); err != nil { return fmt.Errorf("protobuf: %w", err) }
    raw, err := json.Marshal(val.AsInterface())
    if err != nil { return fmt.Errorf("protobuf: %w", err) }
    return json.Unmarshal(raw, v)
}
