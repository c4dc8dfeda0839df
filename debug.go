package rsg

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
)

// debugStats holds per-cycle timing and list metrics.
// Only populated when the Graph is in debug mode.
type debugStats struct {
	prepareTime   time.Duration
	materialTime  time.Duration
	dirtyWorld    int
	dirtyOpacity  int
	dirtyMaterial int
	candidates    int
	opaqueCount   int
	alphaCount    int
}

// debugLog prints timing and list stats to stderr.
func debugLog(frame uint64, stats debugStats) {
	total := stats.prepareTime + stats.materialTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[rsg] cycle %d | prepare: %v | materials: %v | total: %v\n",
		frame, stats.prepareTime, stats.materialTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[rsg] dirty roots: world %d, opacity %d, material %d | candidates: %d | opaque: %d | alpha: %d\n",
		stats.dirtyWorld, stats.dirtyOpacity, stats.dirtyMaterial,
		stats.candidates, stats.opaqueCount, stats.alphaCount)
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(child, parent NodeKey, n int) {
	if n == debugMaxChildCount+1 {
		_, _ = fmt.Fprintf(os.Stderr, "[rsg] warning: %v has %d children (threshold %d), last added %v\n",
			parent, n, debugMaxChildCount, child)
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 256

func debugCheckTreeDepth(s *Scene) {
	if s.root.IsNil() {
		return
	}
	deepest, at := 0, NodeKey{}
	for key, depth := range s.Traverse(s.root) {
		if depth > deepest {
			deepest, at = depth, key
		}
	}
	if deepest > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[rsg] warning: tree depth %d exceeds %d (node %v)\n",
			deepest, debugMaxTreeDepth, at)
	}
}

// debugCheckComponentCounts panics if a component store holds entries that
// no node in the tree links to. Skipped while transactions are open, since
// their nodes own components but are not in the tree yet.
func debugCheckComponentCounts(c *Components, s *Scene) {
	if s.pending > 0 || s.root.IsNil() {
		return
	}
	var t, o, m, me, ca, v int
	for key := range s.Traverse(s.root) {
		links := s.ComponentLinks(key)
		if !links.Transform.IsNil() {
			t++
		}
		if !links.Opacity.IsNil() {
			o++
		}
		if !links.Material.IsNil() {
			m++
		}
		if !links.Mesh.IsNil() {
			me++
		}
		if !links.Camera.IsNil() {
			ca++
		}
		if !links.Viewport.IsNil() {
			v++
		}
	}
	check := func(kind string, linked, stored int) {
		if linked != stored {
			panic(fmt.Sprintf("rsg debug: %d %s components stored but %d linked from the tree; released components leaked",
				stored, kind, linked))
		}
	}
	check("transform", t, c.Transforms.Len())
	check("opacity", o, c.Opacities.Len())
	check("material", m, c.Materials.Len())
	check("mesh", me, c.Meshes.Len())
	check("camera", ca, c.Cameras.Len())
	check("viewport", v, c.Viewports.Len())
}

// dumpConfig renders component payloads for PrintScene.
var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	DisableMethods:          true,
	SortKeys:                true,
	MaxDepth:                3,
}

// PrintScene writes an indented outline of the subtree at start to w, one
// node per line with its component links. Nodes deeper than maxDepth below
// start are skipped; maxDepth < 0 prints everything. With verbose set, the
// camera and viewport payloads of each node are dumped below it.
func PrintScene(w io.Writer, c *Components, s *Scene, start NodeKey, maxDepth int, verbose bool) error {
	for key, depth := range s.Traverse(start) {
		if maxDepth >= 0 && depth > maxDepth {
			continue
		}
		indent := strings.Repeat("  ", depth)
		links := s.ComponentLinks(key)
		if _, err := fmt.Fprintf(w, "%s%v%s\n", indent, key, describeLinks(c, links)); err != nil {
			return err
		}
		if !verbose {
			continue
		}
		if !links.Camera.IsNil() {
			if _, err := fmt.Fprintf(w, "%s  camera: %s", indent, dumpConfig.Sdump(c.Cameras.At(links.Camera).Camera)); err != nil {
				return err
			}
		}
		if !links.Viewport.IsNil() {
			if _, err := fmt.Fprintf(w, "%s  viewport: %s", indent, dumpConfig.Sdump(*c.Viewports.At(links.Viewport))); err != nil {
				return err
			}
		}
	}
	return nil
}

func describeLinks(c *Components, links Links) string {
	if links.IsEmpty() {
		return ""
	}
	var b strings.Builder
	if !links.Transform.IsNil() {
		fmt.Fprintf(&b, " transform%v", c.Transforms.At(links.Transform).WorldTranslation())
	}
	if !links.Opacity.IsNil() {
		o := c.Opacities.At(links.Opacity)
		fmt.Fprintf(&b, " opacity(%g inherited %g)", o.Opacity, o.Inherited)
	}
	if !links.Material.IsNil() {
		if m, ok := c.MaterialData.Get(links.Material); ok {
			fmt.Fprintf(&b, " material(shader %d)", m.ShaderSetID)
		} else {
			b.WriteString(" material")
		}
	}
	if !links.Mesh.IsNil() {
		fmt.Fprintf(&b, " mesh(d=%g)", c.Meshes.At(links.Mesh).SortDistance)
	}
	if !links.Camera.IsNil() {
		b.WriteString(" camera")
	}
	if !links.Viewport.IsNil() {
		b.WriteString(" viewport")
	}
	return b.String()
}
