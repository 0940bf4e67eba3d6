package engine

import (
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// ScaleOutStagger returns the start delay of the depth scatter for a row.
// Only the first four rows are staggered.
func ScaleOutStagger(row int) time.Duration {
	switch row {
	case 0:
		return 400 * time.Millisecond
	case 1:
		return 500 * time.Millisecond
	case 2:
		return 800 * time.Millisecond
	case 3:
		return time.Second
	default:
		return 1200 * time.Millisecond
	}
}

// ScrollStagger returns the start delay of the first scroll for a row.
func ScrollStagger(row int) time.Duration {
	switch row {
	case 0:
		return 0
	case 1:
		return 300 * time.Millisecond
	default:
		return 750 * time.Millisecond
	}
}

// rebuildForStage2 replaces every wrapper with a free-standing,
// double-sided tile under the root and recenters the root so the vanishing
// point sits in the middle of the viewport.
func (e *Engine) rebuildForStage2() {
	root := e.surface.Root()

	e.tiles = make([]*Tile, 0, len(e.wrappers))
	for i, w := range e.wrappers {
		if len(w.tiles) != 1 {
			panic(newWrapperTileCount(i, len(w.tiles)))
		}
		t := e.newTile(w.tiles[0].Album, w.frame.Origin, true, layer.Identity())
		e.surface.AddSublayer(root, t.Layer)
		e.tiles = append(e.tiles, t)

		e.surface.Remove(w.layer)
	}
	e.wrappers = nil

	e.surface.SetSublayerTransform(root, layer.Perspective(e.cfg.PerspectiveDistance))
	e.surface.SetAnchor(root, layer.Point{X: 0.5, Y: 0.5})
	e.surface.SetPosition(root, layer.Point{X: e.viewport.W / 2, Y: e.viewport.H / 2})
	e.stage = Stage2

	// Flush the rebuild before scattering.
	e.commit(anim.Transaction{}, completion{kind: kindRebuildDone})

	e.logger.Info("stage 2 entered",
		"tiles", len(e.tiles),
		"epoch", uint64(e.epoch),
	)
}

// scaleOutAndScatter adds the buffer rows above the grid, pushes every tile
// to a random depth and starts the endless scroll.
func (e *Engine) scaleOutAndScatter() {
	root := e.surface.Root()
	rows, cols := e.geom.Rows, e.geom.Cols

	for i := 0; i < e.cfg.BufferRows; i++ {
		for col := 0; col < cols; col++ {
			t := e.newTile(e.albums.Next(), e.geom.CellOrigin(rows+i, col), true, layer.Identity())
			e.surface.AddSublayer(root, t.Layer)
			e.tiles = append(e.tiles, t)
		}
	}
	e.geom.Rows += e.cfg.BufferRows
	rows = e.geom.Rows

	if rows*cols != len(e.tiles) {
		panic(newGridSizeMismatch(rows, cols, len(e.tiles)))
	}

	scaleOut := config.Seconds(e.cfg.ScaleOutDuration)
	identity := layer.Identity()
	items := make([]anim.Item, 0, len(e.tiles))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			t := e.tiles[r*cols+c]
			depth := e.randomDepth()
			t.Transform = depth
			e.surface.SetTransform(t.Layer, depth)

			items = append(items, anim.Item{Layer: t.Layer, Animation: anim.Animation{
				Property:            anim.PropTransform,
				From:                &anim.Value{Transform: identity},
				To:                  &anim.Value{Transform: depth},
				Easing:              anim.EaseIn,
				Fill:                anim.FillBackwards,
				RemovedOnCompletion: true,
				Delay:               ScaleOutStagger(r),
				Duration:            scaleOut,
			}})
		}
	}
	e.animator.Commit(anim.Transaction{Items: items, Silent: true})

	for r := 0; r < rows; r++ {
		e.startRowScroll(e.tiles[r*cols:(r+1)*cols], ScrollStagger(r))
	}

	e.logger.Debug("grid scattered",
		"rows", rows,
		"cols", cols,
		"tiles", len(e.tiles),
	)
}

func (e *Engine) randomDepth() layer.Transform {
	return layer.Translation(0, 0, e.rng.NextFloat(e.cfg.DepthMin, e.cfg.DepthMax))
}
