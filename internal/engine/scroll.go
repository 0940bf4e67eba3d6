package engine

import (
	"slices"
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// ScrollAnimationFor moves a tile from its frame up to two tile sizes past
// the top edge (y = -2*tileSize) at a constant velocity in points per
// second.
func ScrollAnimationFor(frame layer.Rect, tileSize, velocity float64) anim.Animation {
	target := -2 * tileSize
	distance := frame.Origin.Y - target
	return anim.Animation{
		Property: anim.PropPosition,
		To:       &anim.Value{Point: layer.Point{X: frame.Center().X, Y: target}},
		Fill:     anim.FillForwards,
		Duration: config.Seconds(distance / velocity),
	}
}

// scrollRow tracks the tiles of one row still on screen. The replacement
// row is spawned once the leftmost tile and all of its row-mates are gone,
// whatever order their completions arrive in.
type scrollRow struct {
	remaining    int
	leftmostGone bool
}

// startRowScroll commits one scroll per tile of a row.
func (e *Engine) startRowScroll(row []*Tile, delay time.Duration) {
	size := layer.Size{W: e.geom.TileSize, H: e.geom.TileSize}
	sr := &scrollRow{remaining: len(row)}
	for c, t := range row {
		a := ScrollAnimationFor(layer.Rect{Origin: t.Origin, Size: size}, e.geom.TileSize, e.cfg.ScrollVelocity)
		a.Delay = delay

		e.commit(anim.Transaction{Items: []anim.Item{{Layer: t.Layer, Animation: a}}}, completion{
			kind:       kindScrollDone,
			tile:       t,
			row:        sr,
			firstInRow: c == 0,
		})
	}
}

// onScrollCompleted retires a tile that left the top of the viewport. The
// last tile of a row to leave spawns the next row at the bottom.
func (e *Engine) onScrollCompleted(c completion) {
	i := slices.Index(e.tiles, c.tile)
	if i < 0 {
		panic(newUnknownTile(uint64(c.tile.Layer), c.tile.Album))
	}
	e.surface.Remove(c.tile.Layer)
	e.tiles = slices.Delete(e.tiles, i, i+1)
	e.tilesRetired++

	c.row.remaining--
	if c.firstInRow {
		c.row.leftmostGone = true
	}
	if c.row.leftmostGone && c.row.remaining == 0 {
		e.spawnRow()
	}
}

// spawnRow appends a full row at the top buffer position with fresh albums
// and depths, and starts scrolling it.
func (e *Engine) spawnRow() {
	root := e.surface.Root()
	cols := e.geom.Cols

	row := make([]*Tile, cols)
	for c := 0; c < cols; c++ {
		album := e.albums.Next()
		t := e.newTile(album, e.geom.CellOrigin(e.geom.Rows-1, c), true, e.randomDepth())
		e.surface.AddSublayer(root, t.Layer)
		e.tiles = append(e.tiles, t)
		row[c] = t
	}
	e.startRowScroll(row, 0)
	e.rowsSpawned++

	e.logger.Debug("row spawned",
		"rows_spawned", e.rowsSpawned,
		"tiles", len(e.tiles),
	)
}
