package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/PeakBI/vrp/pkg/gsom"
)

// TopologyOptions configures a GSOM network's debug SVG rendering.
type TopologyOptions struct {
	Width      int    // Canvas width in pixels
	Height     int    // Canvas height in pixels
	CellSize   int    // Pixel spacing between adjacent lattice coordinates
	NodeRadius int    // Radius of a node circle
	Margin     int    // Canvas margin in pixels
	Title      string // Optional title
	ShowError  bool   // Color nodes by accumulated error instead of a flat color
}

// DefaultTopologyOptions returns sensible defaults for a modestly sized network.
func DefaultTopologyOptions() TopologyOptions {
	return TopologyOptions{
		Width:      900,
		Height:     900,
		CellSize:   60,
		NodeRadius: 18,
		Margin:     60,
		Title:      "GSOM Topology",
		ShowError:  true,
	}
}

// WriteTopologySVG renders net's current lattice as an SVG: one circle per
// node positioned by its Coordinate, colored by accumulated error when
// ShowError is set, labeled with its hit count. This is a diagnostic
// collaborator, not part of the solver's stable ABI.
func WriteTopologySVG[I gsom.Input, S gsom.Storage[I], F gsom.StorageFactory[I, S]](w io.Writer, net *gsom.Network[I, S, F], opts TopologyOptions) error {
	if opts.Width <= 0 {
		opts.Width = 900
	}
	if opts.Height <= 0 {
		opts.Height = 900
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 60
	}
	if opts.NodeRadius <= 0 {
		opts.NodeRadius = 18
	}
	if opts.Margin <= 0 {
		opts.Margin = 60
	}

	coords := net.Coordinates()
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Y < coords[j].Y
	})

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(opts.Width, opts.Height)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#1a1a2e")

	if opts.Title != "" {
		canvas.Text(opts.Width/2, 25, fmt.Sprintf("%s (%d nodes, t=%d)", opts.Title, net.Size(), net.CurrentTime()),
			"text-anchor:middle;font-size:18px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}

	maxError := 0.0
	for _, c := range coords {
		if node, ok := net.Find(c); ok {
			if e := node.Error(); e > maxError {
				maxError = e
			}
		}
	}

	for _, c := range coords {
		node, ok := net.Find(c)
		if !ok {
			continue
		}
		x := opts.Margin + c.X*opts.CellSize
		y := opts.Margin + c.Y*opts.CellSize + 40

		color := "#4299e1"
		if opts.ShowError && maxError > 0 {
			color = errorHeatColor(node.Error() / maxError)
		}

		canvas.Circle(x, y, opts.NodeRadius, fmt.Sprintf("fill:%s;stroke:#fff;stroke-width:1;opacity:0.9", color))
		canvas.Text(x, y+opts.NodeRadius+14, fmt.Sprintf("(%d,%d) h=%d", c.X, c.Y, node.HitCount()),
			"text-anchor:middle;font-size:9px;font-family:monospace;fill:#cbd5e0")
	}

	canvas.End()
	_, err := w.Write(buf.Bytes())
	return err
}

// SaveTopologySVGToFile renders and writes a topology SVG to path.
func SaveTopologySVGToFile[I gsom.Input, S gsom.Storage[I], F gsom.StorageFactory[I, S]](path string, net *gsom.Network[I, S, F], opts TopologyOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: creating topology SVG file: %w", err)
	}
	defer f.Close()
	return WriteTopologySVG(f, net, opts)
}

func errorHeatColor(fraction float64) string {
	switch {
	case fraction < 0.25:
		return "#3b82f6"
	case fraction < 0.5:
		return "#10b981"
	case fraction < 0.75:
		return "#f59e0b"
	default:
		return "#ef4444"
	}
}
