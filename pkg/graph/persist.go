package graph

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"os"
)

// gobGraph is the on-disk encoding of a Graph: plain value slices rather
// than the live adjacency maps, since gob doesn't need (and shouldn't pay
// for) the mutation-friendly indices the in-memory Graph keeps.
type gobGraph struct {
	Meta  Meta
	Nodes []Node
	Edges []Edge
}

// Save writes g to path as gob-encoded bytes followed by a CRC32 trailer,
// adapting the teacher's binary-format checksum idiom to a variable-shape
// multigraph (no fixed-width CSR arrays to encode zero-copy). This is an
// ambient CLI convenience only — the matching core itself holds no
// persisted state (spec.md §6).
func Save(g *Graph, path string) error {
	gg := gobGraph{Meta: g.Meta}
	for _, n := range g.Nodes() {
		gg.Nodes = append(gg.Nodes, *n)
	}
	for _, e := range g.Edges() {
		gg.Edges = append(gg.Edges, *e)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&gg); err != nil {
		return fmt.Errorf("graph: encode: %w", err)
	}

	sum := crc32.ChecksumIEEE(buf.Bytes())
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("graph: create: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()
		return fmt.Errorf("graph: write: %w", err)
	}
	var trailer [4]byte
	trailer[0] = byte(sum)
	trailer[1] = byte(sum >> 8)
	trailer[2] = byte(sum >> 16)
	trailer[3] = byte(sum >> 24)
	if _, err := f.Write(trailer[:]); err != nil {
		f.Close()
		return fmt.Errorf("graph: write trailer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("graph: close: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load reads a graph previously written by Save, verifying its CRC32
// trailer before decoding.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("graph: read: %w", err)
	}
	if len(data) < 4 {
		return nil, fmt.Errorf("graph: truncated file")
	}
	body, trailer := data[:len(data)-4], data[len(data)-4:]
	want := uint32(trailer[0]) | uint32(trailer[1])<<8 | uint32(trailer[2])<<16 | uint32(trailer[3])<<24
	if got := crc32.ChecksumIEEE(body); got != want {
		return nil, fmt.Errorf("graph: checksum mismatch (corrupt file)")
	}

	var gg gobGraph
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&gg); err != nil {
		return nil, fmt.Errorf("graph: decode: %w", err)
	}

	g := New()
	g.Meta = gg.Meta
	for i := range gg.Nodes {
		n := gg.Nodes[i]
		g.AddNode(&n)
	}
	for _, e := range gg.Edges {
		if _, err := g.AddEdge(e.U, e.V, e.OSMID, e.Geometry, e.Length, e.Oneway, e.Tags); err != nil {
			return nil, err
		}
	}
	return g, nil
}
