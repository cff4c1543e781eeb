// Package codec converts values to and from bytes. Each codec names the media
// type it produces so HTTP handlers can pick one from an Accept header.
package codec

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Media is a Codec that also reports the media type of its encoding.
type Media[V any] interface {
	Codec[V]
	ContentType() string
}

const (
	MediaJSON     = "application/json"
	MediaCBOR     = "application/cbor"
	MediaMsgpack  = "application/msgpack"
	MediaProtobuf = "application/x-protobuf"
)
