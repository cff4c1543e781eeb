// Package positionstack is a provider.Geocoder for positionstack-compatible
// HTTP APIs.
//
// Request URLs come from templates. The forward template must contain ADDRESS
// (replaced by the query-escaped address); the reverse template must contain
// LATITUDE and LONGITUDE. ACCESS_KEY, if present, is replaced in both:
//
//	http://api.positionstack.com/v1/forward?access_key=ACCESS_KEY&query=ADDRESS
//	http://api.positionstack.com/v1/reverse?access_key=ACCESS_KEY&query=LATITUDE,LONGITUDE
package positionstack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/unkn0wn-root/geocache"
	"github.com/unkn0wn-root/geocache/codec"
	"github.com/unkn0wn-root/geocache/provider"
)

const (
	phAddress   = "ADDRESS"
	phLatitude  = "LATITUDE"
	phLongitude = "LONGITUDE"
	phAccessKey = "ACCESS_KEY"

	defaultTimeout = 10 * time.Second
	defaultMaxBody = 1 << 20
)

type Config struct {
	ForwardURL string
	ReverseURL string
	AccessKey  string

	Timeout time.Duration // per request; default 10s
	MaxBody int           // response bytes; default 1 MiB

	// RateLimit is requests per second towards the upstream; 0 disables
	// limiting. Burst defaults to 1.
	RateLimit float64
	Burst     int

	HTTPClient *http.Client
	Logger     geocache.Logger
}

type Client struct {
	forward string
	reverse string
	http    *http.Client
	limiter *rate.Limiter // nil = unlimited
	maxBody int
	codec   codec.Codec[response]
	log     geocache.Logger
}

var _ provider.Geocoder = (*Client)(nil)

type response struct {
	Data  []place   `json:"data"`
	Error *apiError `json:"error,omitempty"`
}

type place struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func New(cfg Config) (*Client, error) {
	if !strings.Contains(cfg.ForwardURL, phAddress) {
		return nil, fmt.Errorf("positionstack: forward url must contain %s", phAddress)
	}
	if !strings.Contains(cfg.ReverseURL, phLatitude) || !strings.Contains(cfg.ReverseURL, phLongitude) {
		return nil, fmt.Errorf("positionstack: reverse url must contain %s and %s", phLatitude, phLongitude)
	}
	if cfg.RateLimit < 0 {
		return nil, errors.New("positionstack: rate limit must not be negative")
	}

	c := &Client{
		forward: strings.ReplaceAll(cfg.ForwardURL, phAccessKey, url.QueryEscape(cfg.AccessKey)),
		reverse: strings.ReplaceAll(cfg.ReverseURL, phAccessKey, url.QueryEscape(cfg.AccessKey)),
		http:    cfg.HTTPClient,
		log:     cfg.Logger,
	}
	if c.http == nil {
		t := cfg.Timeout
		if t <= 0 {
			t = defaultTimeout
		}
		c.http = &http.Client{Timeout: t}
	}
	if c.log == nil {
		c.log = geocache.NopLogger{}
	}
	c.maxBody = cfg.MaxBody
	if c.maxBody <= 0 {
		c.maxBody = defaultMaxBody
	}
	c.codec = codec.Limit[response]{Inner: codec.JSON[response]{}, MaxDecode: c.maxBody}

	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c, nil
}

func (c *Client) Forward(ctx context.Context, address string) (provider.Place, error) {
	u := strings.ReplaceAll(c.forward, phAddress, url.QueryEscape(address))
	c.log.Info("calling forward geocoding API", geocache.Fields{"address": address})

	p, err := c.lookup(ctx, provider.OpForward, u)
	if err != nil {
		if !errors.Is(err, provider.ErrNoResult) {
			c.log.Error("geocoding API call failed", geocache.Fields{"address": address, "err": err})
		}
		return provider.Place{}, err
	}
	c.log.Info("resolved coordinates", geocache.Fields{"latitude": p.Latitude, "longitude": p.Longitude})
	return p, nil
}

func (c *Client) Reverse(ctx context.Context, latitude, longitude float64) (provider.Place, error) {
	u := strings.NewReplacer(
		phLatitude, formatFloat(latitude),
		phLongitude, formatFloat(longitude),
	).Replace(c.reverse)
	c.log.Info("calling reverse geocoding API", geocache.Fields{"latitude": latitude, "longitude": longitude})

	p, err := c.lookup(ctx, provider.OpReverse, u)
	if err != nil {
		if !errors.Is(err, provider.ErrNoResult) {
			c.log.Error("reverse geocoding API call failed", geocache.Fields{"latitude": latitude, "longitude": longitude, "err": err})
		}
		return provider.Place{}, err
	}
	c.log.Info("resolved address", geocache.Fields{"address": p.Label})
	return p, nil
}

func (c *Client) lookup(ctx context.Context, op, u string) (provider.Place, error) {
	fail := func(err error) (provider.Place, error) {
		return provider.Place{}, &provider.Error{Op: op, Err: err}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(fmt.Errorf("rate limit: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Accept", codec.MediaJSON)

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return fail(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	// read one byte past the limit so the codec can reject oversized bodies
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(c.maxBody)+1))
	if err != nil {
		return fail(fmt.Errorf("read body: %w", err))
	}
	r, err := c.codec.Decode(body)
	if err != nil {
		return fail(fmt.Errorf("decode body: %w", err))
	}
	if r.Error != nil {
		return fail(fmt.Errorf("upstream error %s: %s", r.Error.Code, r.Error.Message))
	}
	if len(r.Data) == 0 {
		return provider.Place{}, provider.ErrNoResult
	}

	d := r.Data[0]
	label := d.Label
	if label == "" {
		label = d.Name
	}
	return provider.Place{Latitude: d.Latitude, Longitude: d.Longitude, Label: label}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
