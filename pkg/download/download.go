// Package download is the Overpass HTTP collaborator: out of the matching
// core's scope (spec.md §1) but given a thin, real implementation so
// cmd/match has something to call. Grounded on
// original_source/download.py's get_filters/osm_download for the query
// shape, and on the pack's valhalla-http-client-go for the fasthttp
// request/response idiom.
package download

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gotidy/ptr"
	"github.com/valyala/fasthttp"
)

// ErrUnknownNetworkType is returned for an unrecognised network_type
// filter (spec.md §6: "unknown types must fail loudly").
var ErrUnknownNetworkType = errors.New("download: unknown network type")

var filters = map[string]string{
	"drive": `["highway"]["area"!~"yes"]["access"!~"private"]` +
		`["highway"!~"abandoned|bridleway|bus_guideway|construction|corridor|cycleway|` +
		`elevator|escalator|footway|path|pedestrian|planned|platform|proposed|raceway|steps|track"]` +
		`["service"!~"emergency_access|parking|parking_aisle|private"]`,
}

// BuildFilter returns the Overpass "way" tag filter string for networkType,
// or ErrUnknownNetworkType if it is not recognised.
func BuildFilter(networkType string) (string, error) {
	f, ok := filters[networkType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNetworkType, networkType)
	}
	return f, nil
}

// Options configures a Download call. Nil fields fall back to defaults.
type Options struct {
	Endpoint  *string
	Timeout   *time.Duration
	UserAgent *string
}

const (
	defaultEndpoint  = "https://overpass-api.de/api/interpreter"
	defaultTimeout   = 180 * time.Second
	defaultUserAgent = "mapmatch/1.0"
)

// Download requests the Overpass JSON payload for the bbox (north, south,
// west, east) and network type, per spec.md §6's
// graph_from_bbox(N,S,W,E,...) input contract.
func Download(ctx context.Context, north, south, west, east float64, networkType string, opts Options) ([]byte, error) {
	filter, err := BuildFilter(networkType)
	if err != nil {
		return nil, err
	}

	endpoint := stringOr(opts.Endpoint, defaultEndpoint)
	timeout := durationOr(opts.Timeout, defaultTimeout)
	userAgent := stringOr(opts.UserAgent, defaultUserAgent)

	query := fmt.Sprintf(
		"[out:json][timeout:%d];(way%s(%f,%f,%f,%f);>;);out;",
		int(timeout.Seconds()), filter, south, west, north, east,
	)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetUserAgent(userAgent)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.PostArgs().Set("data", query)

	client := &fasthttp.Client{Name: userAgent}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(timeout)
	}
	if err := client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("download: overpass request: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("download: overpass returned status %d", resp.StatusCode())
	}

	body := append([]byte(nil), resp.Body()...)
	return body, nil
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func durationOr(p *time.Duration, def time.Duration) time.Duration {
	if p == nil {
		return def
	}
	return *p
}

// NewOptions builds Options with every field set via gotidy/ptr, the
// small optional-field-pointer helper the pack's valhalla client tests use
// for request structs like this one.
func NewOptions(endpoint string, timeout time.Duration, userAgent string) Options {
	return Options{Endpoint: ptr.String(endpoint), Timeout: ptr.Duration(timeout), UserAgent: ptr.String(userAgent)}
}
