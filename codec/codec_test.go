package codec

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

type point struct {
	Latitude  float64 `json:"latitude" cbor:"latitude" msgpack:"latitude"`
	Longitude float64 `json:"longitude" cbor:"longitude" msgpack:"longitude"`
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestCodecsPreserveStructs(t *testing.T) {
	p := point{Latitude: 48.8566, Longitude: 2.3522}

	if got := roundTrip[point](t, JSON[point]{}, p); got != p {
		t.Fatalf("json: %+v", got)
	}
	if got := roundTrip[point](t, MustCBOR[point](true), p); got != p {
		t.Fatalf("cbor: %+v", got)
	}
	if got := roundTrip[point](t, Msgpack[point]{}, p); got != p {
		t.Fatalf("msgpack: %+v", got)
	}
}

func TestCBORDeterministic(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	first, err := c.Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		b, _ := c.Encode(m)
		if !bytes.Equal(first, b) {
			t.Fatalf("deterministic encoding differs on run %d", i)
		}
	}
}

func TestNewCBORModes(t *testing.T) {
	for _, det := range []bool{true, false} {
		c, err := NewCBOR[point](det)
		if err != nil {
			t.Fatalf("NewCBOR(%v): %v", det, err)
		}
		p := point{Latitude: -33.8688, Longitude: 151.2093}
		if got := roundTrip[point](t, c, p); got != p {
			t.Fatalf("NewCBOR(%v) round trip: %+v", det, got)
		}
	}
}

func TestStructUsesJSONNames(t *testing.T) {
	c := NewStruct()
	got := roundTrip[any](t, c, point{Latitude: 1.5, Longitude: -2})
	want := map[string]any{"latitude": 1.5, "longitude": -2.0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}

	list := roundTrip[any](t, c, []point{{1, 2}})
	if l, ok := list.([]any); !ok || len(l) != 1 {
		t.Fatalf("slice: %#v", list)
	}
}

func TestLimit(t *testing.T) {
	c := Limit[point]{Inner: JSON[point]{}, MaxDecode: 16}
	if _, err := c.Decode([]byte(`{"latitude":1,"longitude":2}`)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := c.Decode([]byte(`{"latitude":1}`)); err != nil {
		t.Fatalf("small payload: %v", err)
	}

	off := Limit[point]{Inner: JSON[point]{}}
	if _, err := off.Decode([]byte(`{"latitude":1,"longitude":2}`)); err != nil {
		t.Fatalf("disabled limit: %v", err)
	}
}

func TestContentTypes(t *testing.T) {
	cases := []struct{ got, want string }{
		{JSON[any]{}.ContentType(), MediaJSON},
		{MustCBOR[any](true).ContentType(), MediaCBOR},
		{Msgpack[any]{}.ContentType(), MediaMsgpack},
		{NewStruct().ContentType(), MediaProtobuf},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("content type %q want %q", tc.got, tc.want)
		}
	}
}
