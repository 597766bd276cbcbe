package layer

import (
	"fmt"
	"image"
	"io"

	"github.com/oov/psd"
)

// DecodePSD reads a Photoshop document and builds a Document from its
// layer tree. Folder layers become groups; raster layers become leaves
// positioned by their stored rectangle. The flattened composite is not
// decoded: only per-layer data is needed here.
func DecodePSD(r io.Reader) (*Document, error) {
	img, _, err := psd.Decode(r, &psd.DecodeOptions{SkipMergedImage: true})
	if err != nil {
		return nil, fmt.Errorf("decode psd: %w", err)
	}
	doc := &Document{
		Width:  img.Config.Rect.Dx(),
		Height: img.Config.Rect.Dy(),
	}
	doc.Root = psdNodes(img.Layer)
	return doc, nil
}

// DecodePSDComposite reads only the pre-flattened composite of a
// Photoshop document, skipping all per-layer pixel data. Used when
// layer decomposition was not requested.
func DecodePSDComposite(r io.Reader) (*image.NRGBA, error) {
	img, _, err := psd.Decode(r, &psd.DecodeOptions{SkipLayerImage: true})
	if err != nil {
		return nil, fmt.Errorf("decode psd composite: %w", err)
	}
	if img.Picker == nil {
		return nil, fmt.Errorf("decode psd composite: document has no merged image data")
	}
	return rasterize(img.Picker), nil
}

func psdNodes(layers []psd.Layer) []Node {
	var nodes []Node
	for i := range layers {
		l := &layers[i]
		if !l.Visible() {
			continue
		}
		if l.Folder() {
			children := psdNodes(l.Layer)
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, Node{Name: l.Name, Children: children})
			continue
		}
		if !l.HasImage() || l.Picker == nil {
			// Adjustment/text layers without raster content are
			// tolerated and skipped.
			continue
		}
		nodes = append(nodes, Node{
			Name:   l.Name,
			Pixels: rasterize(l.Picker),
			Left:   l.Rect.Min.X,
			Top:    l.Rect.Min.Y,
		})
	}
	return nodes
}
