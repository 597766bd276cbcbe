package mockupkit

import "image"

// removerAlphaThreshold matches the sampler default: pixels at or below
// it carry no color information and are never part of the background.
const removerAlphaThreshold = 8

// RemoveConnectedBackground makes transparent the background region that
// is reachable from the buffer's border through pixels matching target
// within tolerance (Euclidean RGB distance). Interior islands of the
// same color stay intact: the fill only travels through 4-connected
// neighbors, so a matching region fully enclosed by a different-colored
// ring is never reached.
//
// buf is mutated in place. The operation is idempotent: removed pixels
// end at alpha 0 and fail the alpha threshold on a second run.
func RemoveConnectedBackground(buf *image.NRGBA, target Color, tolerance float64) {
	b := buf.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return
	}
	tolSq := tolerance * tolerance

	visited := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))

	removable := func(idx int) bool {
		off := buf.PixOffset(b.Min.X+idx%w, b.Min.Y+idx/w)
		if buf.Pix[off+3] <= removerAlphaThreshold {
			return false
		}
		return target.distSq(buf.Pix[off], buf.Pix[off+1], buf.Pix[off+2]) <= tolSq
	}
	seed := func(x, y int) {
		idx := y*w + x
		if !visited[idx] && removable(idx) {
			visited[idx] = true
			queue = append(queue, idx)
		}
	}

	for x := 0; x < w; x++ {
		seed(x, 0)
		seed(x, h-1)
	}
	for y := 0; y < h; y++ {
		seed(0, y)
		seed(w-1, y)
	}

	dx4 := []int{-1, 0, 1, 0}
	dy4 := []int{0, -1, 0, 1}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		cx := cur % w
		cy := cur / w
		for k := 0; k < 4; k++ {
			nx, ny := cx+dx4[k], cy+dy4[k]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			nIdx := ny*w + nx
			if !visited[nIdx] && removable(nIdx) {
				visited[nIdx] = true
				queue = append(queue, nIdx)
			}
		}
	}

	for _, idx := range queue {
		off := buf.PixOffset(b.Min.X+idx%w, b.Min.Y+idx/w)
		buf.Pix[off+3] = 0
	}
}
