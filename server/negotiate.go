package server

import (
	"github.com/munnerz/goautoneg"

	"github.com/unkn0wn-root/geocache/codec"
)

// encoders in order of preference; the first one is the default.
var encoders = []codec.Media[any]{
	codec.JSON[any]{},
	codec.MustCBOR[any](true),
	codec.Msgpack[any]{},
	codec.NewStruct(),
}

var offers = func() []string {
	out := make([]string, len(encoders))
	for i, e := range encoders {
		out[i] = e.ContentType()
	}
	return out
}()

// negotiate picks an encoder for the Accept header. A missing header gets the
// default; a header nothing satisfies returns ok=false.
func negotiate(accept string) (codec.Media[any], bool) {
	if accept == "" {
		return encoders[0], true
	}
	ct := goautoneg.Negotiate(accept, offers)
	for _, e := range encoders {
		if e.ContentType() == ct {
			return e, true
		}
	}
	return nil, false
}
