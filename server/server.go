// Package server exposes the geocoding service over HTTP.
//
//	GET /api/geocoding?address=...                      {"latitude":..,"longitude":..}
//	GET /reverse-geocoding?latitude=..&longitude=..      {"address":".."}
//	GET /debug/caches                                   cache statistics
//	GET /metrics                                        Prometheus, if a Gatherer is set
//
// Responses are JSON unless the Accept header asks for CBOR, MessagePack or
// protobuf (google.protobuf.Value). Errors carry timestamp, message and
// details ("uri=<path>").
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/unkn0wn-root/geocache"
	"github.com/unkn0wn-root/geocache/geocoding"
)

// Geocoder is the part of geocoding.Service the handlers use.
type Geocoder interface {
	GetCoordinates(ctx context.Context, address string) (geocoding.Coordinate, error)
	GetAddress(ctx context.Context, latitude, longitude float64) (string, error)
}

type Options struct {
	Geocoder Geocoder
	Stats    func() []geocache.Stats // nil disables /debug/caches

	// Gatherer backs /metrics; nil disables the route. Registerer, if set,
	// receives the request duration histogram.
	Gatherer   prometheus.Gatherer
	Registerer prometheus.Registerer
	Namespace  string

	Logger geocache.Logger
	Now    func() time.Time
}

type Server struct {
	mux      *http.ServeMux
	geo      Geocoder
	stats    func() []geocache.Stats
	log      geocache.Logger
	now      func() time.Time
	duration *prometheus.HistogramVec // nil when no Registerer
}

type addressBody struct {
	Address string `json:"address" cbor:"address" msgpack:"address"`
}

type errorBody struct {
	Timestamp time.Time `json:"timestamp" cbor:"timestamp" msgpack:"timestamp"`
	Message   string    `json:"message" cbor:"message" msgpack:"message"`
	Details   string    `json:"details" cbor:"details" msgpack:"details"`
}

func New(opts Options) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		geo:   opts.Geocoder,
		stats: opts.Stats,
		log:   opts.Logger,
		now:   opts.Now,
	}
	if s.log == nil {
		s.log = geocache.NopLogger{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.Registerer != nil {
		s.duration = promauto.With(opts.Registerer).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"route", "code"})
	}

	s.mux.HandleFunc("GET /api/geocoding", s.forward)
	s.mux.HandleFunc("GET /reverse-geocoding", s.reverse)
	if s.stats != nil {
		s.mux.HandleFunc("GET /debug/caches", s.caches)
	}
	if opts.Gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	elapsed := time.Since(start)
	if s.duration != nil {
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.duration.WithLabelValues(route, strconv.Itoa(rec.status)).Observe(elapsed.Seconds())
	}
	s.log.Debug("handled request", geocache.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"status":   rec.status,
		"duration": elapsed,
	})
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("address") {
		s.fail(w, r, &paramError{name: "address", reason: "is required"})
		return
	}
	c, err := s.geo.GetCoordinates(r.Context(), q.Get("address"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, c)
}

func (s *Server) reverse(w http.ResponseWriter, r *http.Request) {
	lat, err := floatParam(r, "latitude")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	lon, err := floatParam(r, "longitude")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.geo.GetAddress(r.Context(), lat, lon)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, r, http.StatusOK, addressBody{Address: a})
}

func (s *Server) caches(w http.ResponseWriter, r *http.Request) {
	s.write(w, r, http.StatusOK, s.stats())
}

func floatParam(r *http.Request, name string) (float64, error) {
	q := r.URL.Query()
	if !q.Has(name) {
		return 0, &paramError{name: name, reason: "is required"}
	}
	f, err := strconv.ParseFloat(q.Get(name), 64)
	if err != nil {
		return 0, &paramError{name: name, reason: "must be a number"}
	}
	return f, nil
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	f := geocache.Fields{"path": r.URL.Path, "status": status, "err": err}
	if status >= http.StatusInternalServerError {
		s.log.Error("API error", f)
	} else {
		s.log.Warn("client error", f)
	}
	s.write(w, r, status, errorBody{
		Timestamp: s.now().UTC(),
		Message:   msg,
		Details:   "uri=" + r.URL.Path,
	})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	enc, ok := negotiate(r.Header.Get("Accept"))
	if !ok {
		http.Error(w, "no acceptable representation", http.StatusNotAcceptable)
		return
	}
	b, err := enc.Encode(v)
	if err != nil {
		s.log.Error("encode response", geocache.Fields{"path": r.URL.Path, "err": err})
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", enc.ContentType())
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
