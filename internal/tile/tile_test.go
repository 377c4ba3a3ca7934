package tile

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maja42/swraster/binding"
	"github.com/maja42/swraster/raster"
	"github.com/maja42/swraster/stage"
	"github.com/maja42/swraster/value"
)

func TestScheduleCoversTrianglesAcrossTiles(t *testing.T) {
	fb := raster.NewFramebuffer(256, 256)
	db := raster.NewDepthBuffer(256, 256)

	mk := func(x, y float32) stage.VertexOutput {
		return stage.VertexOutput{
			Position: [4]float32{x, y, 0.5, 1},
			Location: []value.Value{value.V4(1, 1, 1, 1)},
		}
	}
	// A triangle spanning most of the framebuffer, crossing several
	// Size x Size tiles.
	tri := stage.Triangle{mk(-0.95, -0.95), mk(0.95, -0.95), mk(0, 0.95)}

	shader := func(in stage.FragmentInput, _ *binding.Table) stage.FragmentOutput {
		return stage.FragmentOutput{Location: []value.Value{in.Location[0]}}
	}

	stats := Schedule([]stage.Triangle{tri}, raster.Viewport{Width: 256, Height: 256}, shader, binding.NewTable(), fb, db)
	assert.Greater(t, stats.Covered, 1000)

	idx := (128*256 + 128) * 4
	assert.Equal(t, byte(255), fb.Pixels[idx+3])
}
