package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Protobuf encodes a concrete proto message type.
type Protobuf[T proto.Message] struct {
	new func() T // e.g. func() *structpb.Value { return &structpb.Value{} }
}

func NewProtobuf[T proto.Message](ctor func() T) Protobuf[T] {
	return Protobuf[T]{new: ctor}
}

func (Protobuf[T]) ContentType() string { return MediaProtobuf }

func (c Protobuf[T]) Encode(v T) ([]byte, error) {
	return proto.Marshal(v)
}
func (c Protobuf[T]) Decode(b []byte) (T, error) {
	m := c.new()
	err := proto.Unmarshal(b, m)
	return m, err
}

// Struct carries arbitrary JSON-shaped values as a google.protobuf.Value.
// Encode goes through the value's JSON form, so json tags decide field names;
// Decode returns the generic form (map[string]any, []any, float64, string,
// bool or nil).
type Struct struct {
	pb Protobuf[*structpb.Value]
}

var _ Media[any] = Struct{}

func NewStruct() Struct {
	return Struct{pb: NewProtobuf(func() *structpb.Value { return &structpb.Value{} })}
}

func (Struct) ContentType() string { return MediaProtobuf }

func (c Struct) Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	pv, err := structpb.NewValue(generic)
	if err != nil {
		return nil, fmt.Errorf("structpb: %w", err)
	}
	return c.pb.Encode(pv)
}

func (c Struct) Decode(b []byte) (any, error) {
	pv, err := c.pb.Decode(b)
	if err != nil {
		return nil, err
	}
	return pv.AsInterface(), nil
}
