// Package tile implements the optional, tile-based parallel scheduler
// spec.md's concurrency model invites but does not require: the
// framebuffer is partitioned into fixed-size tiles, each triangle's
// screen-space bounding box is indexed in an R-tree, and one goroutine
// per tile rasterizes only the triangles overlapping it. Because tiles
// partition the framebuffer, two goroutines never write the same
// pixel, so per-pixel write ordering holds without extra locking.
//
// Grounded on github.com/maja42/rtree's bulk-insert/search usage in
// nora's examples/rtree/main.go, repurposed from spatial UI hit-testing
// to triangle/tile overlap queries.
package tile

import (
	"sort"
	"sync"

	"github.com/maja42/rtree"
	"github.com/maja42/vmath"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/internal/pixel"
	"github.com/maja42/swraster/raster"
	"github.com/maja42/swraster/stage"
)

// Size is the edge length, in pixels, of one scheduling tile.
const Size = 64

type item struct {
	tri    stage.Triangle
	bounds vmath.Rectf
	order  int // emission index, used to break depth ties deterministically
}

func (it *item) Bounds() vmath.Rectf { return it.bounds }

// Schedule rasterizes triangles across the framebuffer using one
// goroutine per Size x Size tile, merging per-tile statistics into a
// single raster.Stats.
func Schedule(triangles []stage.Triangle, vp raster.Viewport, fragShader stage.FragmentShader, tbl *binding.Table, fb *raster.Framebuffer, db *raster.DepthBuffer) raster.Stats {
	tree := rtree.New()
	items := make([]rtree.Item, 0, len(triangles))
	for i, tri := range triangles {
		minX, minY, maxX, maxY, ok := raster.ScreenAABB(tri, vp)
		if !ok {
			continue
		}
		it := &item{
			tri: tri,
			bounds: vmath.RectfFromPosSize(
				vmath.Vec2f{float32(minX), float32(minY)},
				vmath.Vec2f{float32(maxX - minX), float32(maxY - minY)},
			),
			order: i,
		}
		items = append(items, it)
	}
	tree.BulkLoad(items)

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := raster.Stats{}

	for ty := 0; ty < vp.Height; ty += Size {
		for tx := 0; tx < vp.Width; tx += Size {
			tx, ty := tx, ty
			tileMax := pixel.Vec2i{tx + Size, ty + Size}.Clamp(pixel.Vec2i{0, 0}, pixel.Vec2i{vp.Width, vp.Height})
			tileMin := pixel.Vec2i{tx, ty}
			tileRect := vmath.RectfFromPosSize(
				vmath.Vec2f{float32(tileMin[0]), float32(tileMin[1])},
				vmath.Vec2f{float32(tileMax[0] - tileMin[0]), float32(tileMax[1] - tileMin[1])},
			)

			wg.Add(1)
			go func() {
				defer wg.Done()
				hits := tree.Search(tileRect, false)
				// The R-tree makes no ordering promise; re-sort by
				// emission order so depth ties within this tile still
				// resolve the same way a sequential Draw would.
				sort.Slice(hits, func(a, b int) bool {
					return hits[a].(*item).order < hits[b].(*item).order
				})
				var tileStats raster.Stats
				for _, h := range hits {
					it := h.(*item)
					s := raster.RasterizeRegion(it.tri, vp, tileMin, tileMax, fragShader, tbl, fb, db)
					tileStats.Fragments += s.Fragments
					tileStats.Covered += s.Covered
				}
				mu.Lock()
				total.Fragments += tileStats.Fragments
				total.Covered += tileStats.Covered
				mu.Unlock()
			}()
		}
	}
	wg.Wait()
	return total
}
