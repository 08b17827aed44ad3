// Command match is a file-in, file-out batch map-matcher: it builds (or
// loads) a graph from an OSM Overpass JSON extract and matches a GPS
// trajectory against it, writing the result as GeoJSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/paulmach/go.geojson"
	"go.uber.org/zap"

	"mapmatch/pkg/geo"
	"mapmatch/pkg/graph"
	"mapmatch/pkg/match"
	"mapmatch/pkg/osmdata"
)

func main() {
	osmPath := flag.String("osm", "", "path to an OSM Overpass JSON extract")
	loadPath := flag.String("load", "", "path to a graph previously persisted with --save (skips --osm)")
	savePath := flag.String("save", "", "path to persist the built graph for reuse (encoding/gob + CRC32)")
	trajPath := flag.String("trajectory", "", "path to a JSON array of {\"lat\":..,\"lon\":..} points")
	radius := flag.Float64("radius", 10, "candidate search radius, meters")
	interpDist := flag.Float64("interp-dist", 1, "edge interpolation spacing, meters")
	sigma := flag.Float64("sigma", 4.07, "GPS noise standard deviation, meters")
	beta := flag.Float64("beta", 20, "route/great-circle discrepancy scale")
	noSimplify := flag.Bool("no-simplify", false, "skip junction-collapsing simplification")
	largestComponent := flag.Bool("largest-component", false, "restrict matching to the graph's largest weakly-connected component")
	allowGaps := flag.Bool("allow-gaps", false, "pass observations with zero candidates to the decoder instead of failing with no-candidates (decoding then reports the trajectory unreachable)")
	output := flag.String("output", "match.geojson", "output GeoJSON path")
	flag.Parse()

	logger := zap.Must(zap.NewProduction()).Sugar()
	defer logger.Sync()

	if *trajPath == "" {
		logger.Fatal("--trajectory is required")
	}
	if *loadPath == "" && *osmPath == "" {
		logger.Fatal("one of --osm or --load is required")
	}

	g, err := buildGraph(logger, *osmPath, *loadPath, !*noSimplify, *largestComponent)
	if err != nil {
		logger.Fatalw("failed to build graph", "error", err)
	}
	logger.Infow("graph ready", "nodes", g.NumNodes(), "edges", g.NumEdges())

	if *savePath != "" {
		if err := graph.Save(g, *savePath); err != nil {
			logger.Fatalw("failed to save graph", "error", err)
		}
		logger.Infow("graph persisted", "path", *savePath)
	}

	trajectory, err := readTrajectory(*trajPath)
	if err != nil {
		logger.Fatalw("failed to read trajectory", "error", err)
	}

	start := time.Now()
	result, err := match.Match(g, trajectory, match.Options{
		InterpDist: *interpDist,
		Radius:     *radius,
		Closest:    true,
		Sigma:      *sigma,
		Beta:       *beta,
		AllowGaps:  *allowGaps,
	})
	if err != nil {
		logger.Fatalw("match failed", "error", err)
	}
	logger.Infow("match complete",
		"observations", len(trajectory),
		"chosen_nodes", len(result.ChosenNodeIDs),
		"joint_log_prob", result.JointLogProb,
		"elapsed", time.Since(start),
	)

	if err := writeGeoJSON(*output, result); err != nil {
		logger.Fatalw("failed to write output", "error", err)
	}
	logger.Infow("wrote result", "path", *output)
}

func buildGraph(logger *zap.SugaredLogger, osmPath, loadPath string, simplify, largestComponent bool) (*graph.Graph, error) {
	var g *graph.Graph

	if loadPath != "" {
		loaded, err := graph.Load(loadPath)
		if err != nil {
			return nil, err
		}
		g = loaded
	} else {
		f, err := os.Open(osmPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		parsed, err := osmdata.Parse(f)
		if err != nil {
			return nil, err
		}

		built, ways, err := graph.FromOSM(parsed, graph.BuildOptions{})
		if err != nil {
			return nil, err
		}
		if simplify {
			built = graph.Simplify(built, ways)
		}
		g = built
	}

	if largestComponent {
		before := g.NumNodes()
		nodes := graph.LargestComponent(g)
		g = graph.FilterToComponent(g, nodes)
		logger.Infow("restricted to largest component", "nodes_before", before, "nodes_after", g.NumNodes())
	}

	return g, nil
}

type trajectoryPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func readTrajectory(path string) ([]geo.LatLon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var points []trajectoryPoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("trajectory: %w", err)
	}
	out := make([]geo.LatLon, len(points))
	for i, p := range points {
		out[i] = geo.LatLon{Lat: p.Lat, Lon: p.Lon}
	}
	return out, nil
}

func writeGeoJSON(path string, result match.Result) error {
	coords := make([][]float64, len(result.Polyline))
	for i, ll := range result.Polyline {
		coords[i] = []float64{ll.Lon, ll.Lat}
	}

	fc := geojson.NewFeatureCollection()
	line := geojson.NewLineStringFeature(coords)
	line.SetProperty("joint_log_prob", result.JointLogProb)
	line.SetProperty("node_count", len(result.ChosenNodeIDs))
	fc.AddFeature(line)

	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
