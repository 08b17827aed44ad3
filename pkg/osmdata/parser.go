// Package osmdata parses the OSM Overpass JSON payload the matching engine
// consumes from its download collaborator (pkg/download) into the raw
// node/way records pkg/graph builds a multigraph from.
package osmdata

import (
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"github.com/paulmach/osm"
)

// ErrInputFormat is returned when the OSM payload is missing required
// structure: no "elements" array, a way without "nodes", or a node without
// lat/lon.
var ErrInputFormat = errors.New("osmdata: malformed OSM input")

// NodeData is a parsed OSM node.
type NodeData struct {
	ID   osm.NodeID
	Lat  float64
	Lon  float64
	Tags osm.Tags
}

// WayData is a parsed OSM way, with consecutive duplicate node references
// already removed.
type WayData struct {
	ID      osm.WayID
	NodeIDs []osm.NodeID
	Tags    osm.Tags
}

// ParseResult holds every node and way found in an OSM payload.
type ParseResult struct {
	Nodes map[osm.NodeID]*NodeData
	Ways  map[osm.WayID]*WayData
}

// element is the wire shape of a single entry in the Overpass "elements"
// array. Lat/Lon/Nodes are pointers so Parse can distinguish "absent" from
// "present and zero" (the equator and prime meridian are valid coordinates).
type element struct {
	Type  string            `json:"type"`
	ID    int64             `json:"id"`
	Lat   *float64          `json:"lat"`
	Lon   *float64          `json:"lon"`
	Nodes []int64           `json:"nodes"`
	Tags  map[string]string `json:"tags"`
}

type payload struct {
	Elements *[]element `json:"elements"`
}

// Parse reads a `{"elements": [...]}` OSM JSON blob and returns its nodes
// and ways. Consecutive duplicate node ids within a way are collapsed, per
// the graph builder's input contract.
func Parse(r io.Reader) (*ParseResult, error) {
	var p payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrInputFormat, err)
	}
	if p.Elements == nil {
		return nil, fmt.Errorf("%w: missing \"elements\"", ErrInputFormat)
	}

	res := &ParseResult{
		Nodes: make(map[osm.NodeID]*NodeData),
		Ways:  make(map[osm.WayID]*WayData),
	}

	for i, e := range *p.Elements {
		switch e.Type {
		case "node":
			if e.Lat == nil || e.Lon == nil {
				return nil, fmt.Errorf("%w: node %d (element %d) missing lat/lon", ErrInputFormat, e.ID, i)
			}
			id := osm.NodeID(e.ID)
			res.Nodes[id] = &NodeData{
				ID:   id,
				Lat:  *e.Lat,
				Lon:  *e.Lon,
				Tags: tagsOf(e.Tags),
			}
		case "way":
			if e.Nodes == nil {
				return nil, fmt.Errorf("%w: way %d (element %d) missing nodes", ErrInputFormat, e.ID, i)
			}
			nodeIDs := make([]osm.NodeID, 0, len(e.Nodes))
			for j, raw := range e.Nodes {
				id := osm.NodeID(raw)
				if j > 0 && nodeIDs[len(nodeIDs)-1] == id {
					continue // collapse consecutive duplicate references
				}
				nodeIDs = append(nodeIDs, id)
			}
			id := osm.WayID(e.ID)
			res.Ways[id] = &WayData{
				ID:      id,
				NodeIDs: nodeIDs,
				Tags:    tagsOf(e.Tags),
			}
		default:
			// relations and anything else are outside the matching core's
			// concern; silently ignored per the graph builder's contract
			// (it only consumes node/way elements).
		}
	}

	return res, nil
}

func tagsOf(m map[string]string) osm.Tags {
	if len(m) == 0 {
		return nil
	}
	tags := make(osm.Tags, 0, len(m))
	for k, v := range m {
		tags = append(tags, osm.Tag{Key: k, Value: v})
	}
	return tags
}
