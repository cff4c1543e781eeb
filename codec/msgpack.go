package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes values with vmihailenco/msgpack/v5. The zero value is
// ready to use. Field names come from `msgpack:"..."` tags, falling back to
// the Go field name.
type Msgpack[V any] struct{}

var _ Media[struct{}] = Msgpack[struct{}]{}

func (Msgpack[V]) ContentType() string { return MediaMsgpack }

func (Msgpack[V]) Encode(v V) ([]byte, error) {
	return msgpack.Marshal(v)
}
func (Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	err := msgpack.Unmarshal(b, &v)
	return v, err
}
