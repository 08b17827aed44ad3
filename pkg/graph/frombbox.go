package graph

import (
	"bytes"
	"context"
	"fmt"

	"mapmatch/pkg/download"
	"mapmatch/pkg/geo"
	"mapmatch/pkg/osmdata"
)

// BBoxOptions configures FromBBox.
type BBoxOptions struct {
	Simplify         bool
	NetworkType      string // default "drive"
	BufferDistMeters float64
	Download         download.Options
}

// DefaultBBoxOptions returns spec.md §6's graph_from_bbox defaults:
// simplify=true, network_type="drive", buffer_dist=0.
func DefaultBBoxOptions() BBoxOptions {
	return BBoxOptions{Simplify: true, NetworkType: "drive"}
}

// FromBBox enlarges the bbox by BufferDistMeters, requests OSM data over
// the network, builds the multigraph, and optionally simplifies it — the
// sequence spec.md §6 describes for graph_from_bbox.
func FromBBox(ctx context.Context, north, south, west, east float64, opts BBoxOptions) (*Graph, error) {
	if opts.NetworkType == "" {
		opts.NetworkType = "drive"
	}

	if opts.BufferDistMeters > 0 {
		north, south, west, east = geo.EnlargeBBox(north, south, west, east, opts.BufferDistMeters)
	}

	payload, err := download.Download(ctx, north, south, west, east, opts.NetworkType, opts.Download)
	if err != nil {
		return nil, err
	}

	parsed, err := osmdata.Parse(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	g, ways, err := FromOSM(parsed, BuildOptions{})
	if err != nil {
		return nil, err
	}
	if g.NumNodes() == 0 || g.NumEdges() == 0 {
		return nil, fmt.Errorf("%w: bbox(%f,%f,%f,%f) network_type=%s", ErrEmptyGraph, north, south, west, east, opts.NetworkType)
	}

	if opts.Simplify {
		g = Simplify(g, ways)
	}

	return g, nil
}
