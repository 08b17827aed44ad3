package osmdata

import (
	"errors"
	"strings"
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	body := `{
		"elements": [
			{"type": "node", "id": 1, "lat": 0.0, "lon": 0.0},
			{"type": "node", "id": 2, "lat": 0.0, "lon": 0.001, "tags": {"crossing": "yes"}},
			{"type": "way", "id": 100, "nodes": [1, 2, 2], "tags": {"highway": "residential"}}
		]
	}`

	res, err := Parse(strings.NewReader(body))
	require.NoError(t, err)

	require.Len(t, res.Nodes, 2)
	assert.Equal(t, 0.001, res.Nodes[osm.NodeID(2)].Lon)

	require.Len(t, res.Ways, 1)
	way := res.Ways[osm.WayID(100)]
	assert.Equal(t, []osm.NodeID{1, 2}, way.NodeIDs, "consecutive duplicate node ref must collapse")
	assert.Equal(t, "residential", way.Tags.Find("highway"))
}

func TestParseMissingElements(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"foo": "bar"}`))
	assert.True(t, errors.Is(err, ErrInputFormat))
}

func TestParseWayMissingNodes(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"elements":[{"type":"way","id":1,"tags":{}}]}`))
	assert.True(t, errors.Is(err, ErrInputFormat))
}

func TestParseNodeMissingCoords(t *testing.T) {
	_, err := Parse(strings.NewReader(`{"elements":[{"type":"node","id":1}]}`))
	assert.True(t, errors.Is(err, ErrInputFormat))
}

func TestParseIgnoresRelations(t *testing.T) {
	res, err := Parse(strings.NewReader(`{"elements":[{"type":"relation","id":1}]}`))
	require.NoError(t, err)
	assert.Empty(t, res.Nodes)
	assert.Empty(t, res.Ways)
}

func TestParseZeroCoordinatesAreValid(t *testing.T) {
	// Equator/prime meridian must not be mistaken for "missing".
	res, err := Parse(strings.NewReader(`{"elements":[{"type":"node","id":1,"lat":0,"lon":0}]}`))
	require.NoError(t, err)
	require.Contains(t, res.Nodes, osm.NodeID(1))
}
