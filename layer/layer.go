// Package layer models layered documents (PSD, XCF) as an owned tree of
// group and leaf nodes, and flattens each leaf raster layer into a
// document-sized pixel buffer at its stored offset.
package layer

import (
	"errors"
	"image"
	"image/draw"
	"strings"
)

// ErrEmptyDocument reports a layered document with no leaf layer that
// carries usable pixel data.
var ErrEmptyDocument = errors.New("layered document has no usable raster layers")

// Separator joins sanitized group names into the namespacing prefix of a
// flattened layer.
const Separator = "/"

// Node is one entry in a document's layer tree. A node is either a
// group (Children set, Pixels nil) or a leaf (Pixels set, no Children).
// Nodes are built once by a document adapter and never mutated.
type Node struct {
	Name string
	// Pixels is the leaf's own raster, nil for groups and for leaves
	// without raster content (e.g. adjustment layers).
	Pixels *image.NRGBA
	// Left, Top position Pixels within the parent document.
	Left, Top int
	Children  []Node
}

// IsGroup reports whether n namespaces children instead of carrying
// pixels.
func (n *Node) IsGroup() bool { return len(n.Children) > 0 }

// Document is a decoded layered document: the canvas size and the root
// layer sequence, in document order.
type Document struct {
	Width, Height int
	Root          []Node
}

// Flattened is one leaf layer rendered into a document-sized buffer at
// its stored offset, so extracted layers stay spatially meaningful when
// placed later.
type Flattened struct {
	// Name is the sanitized group path joined with Separator plus the
	// leaf's own sanitized name. Collisions between siblings are left
	// to the caller's naming policy.
	Name   string
	Pixels *image.NRGBA
}

// Decompose walks the layer tree depth-first in pre-order and returns
// one Flattened per leaf with usable pixel data (width and height both
// positive). Leaves without raster content are silently skipped.
// Returns ErrEmptyDocument when the full walk finds nothing usable.
func (d *Document) Decompose() ([]Flattened, error) {
	var out []Flattened
	var walk func(nodes []Node, prefix string)
	walk = func(nodes []Node, prefix string) {
		for i := range nodes {
			n := &nodes[i]
			name := SanitizeName(n.Name)
			if n.IsGroup() {
				walk(n.Children, prefix+name+Separator)
				continue
			}
			if n.Pixels == nil {
				continue
			}
			pb := n.Pixels.Bounds()
			if pb.Dx() <= 0 || pb.Dy() <= 0 {
				continue
			}
			out = append(out, Flattened{
				Name:   prefix + name,
				Pixels: d.flattenLeaf(n),
			})
		}
	}
	walk(d.Root, "")
	if len(out) == 0 {
		return nil, ErrEmptyDocument
	}
	return out, nil
}

// Composite renders the whole document into a single canvas-sized
// buffer: leaves are drawn bottom-to-top (document order is top-first)
// at their stored offsets, over a transparent background. Documents
// whose format ships a pre-flattened composite should prefer that; this
// covers formats that do not.
func (d *Document) Composite() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for i := len(nodes) - 1; i >= 0; i-- {
			n := &nodes[i]
			if n.IsGroup() {
				walk(n.Children)
				continue
			}
			if n.Pixels == nil {
				continue
			}
			pb := n.Pixels.Bounds()
			target := image.Rect(n.Left, n.Top, n.Left+pb.Dx(), n.Top+pb.Dy())
			draw.Draw(dst, target, n.Pixels, pb.Min, draw.Over)
		}
	}
	walk(d.Root)
	return dst
}

// flattenLeaf composites the leaf's pixels at (Left, Top) into a
// transparent document-sized buffer. Src op: the destination is empty
// and the layer's own alpha must be preserved exactly.
func (d *Document) flattenLeaf(n *Node) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	pb := n.Pixels.Bounds()
	target := image.Rect(n.Left, n.Top, n.Left+pb.Dx(), n.Top+pb.Dy())
	draw.Draw(dst, target, n.Pixels, pb.Min, draw.Src)
	return dst
}

// SanitizeName makes a layer name safe for use in file names: path
// separators and other filesystem-hostile characters become underscores
// and surrounding whitespace is trimmed. An empty result becomes
// "layer".
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r < 0x20, strings.ContainsRune(`/\:*?"<>|`, r):
			sb.WriteRune('_')
		default:
			sb.WriteRune(r)
		}
	}
	s := sb.String()
	if s == "" {
		return "layer"
	}
	return s
}
