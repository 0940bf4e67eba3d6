package engine

import (
	"math"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

// Geometry is the grid layout derived from the viewport.
type Geometry struct {
	TileSize float64 `json:"tile_size"`
	Rows     int     `json:"rows"`
	Cols     int     `json:"cols"`
	Margin   float64 `json:"margin"` // horizontal space left of the first column
}

// ComputeGeometry lays out square tiles so that rowsPerViewport rows fill
// the viewport height, centering the columns horizontally.
//
// Returns ErrViewportTooSmall when no full row or column fits.
func ComputeGeometry(viewport layer.Size, rowsPerViewport int) (Geometry, error) {
	if rowsPerViewport <= 0 {
		return Geometry{}, ErrViewportTooSmall
	}

	tileSize := math.Floor(viewport.H / float64(rowsPerViewport))
	if !(tileSize >= 1) {
		return Geometry{}, ErrViewportTooSmall
	}

	rows := int(math.Floor(viewport.H / tileSize))
	cols := int(math.Floor(viewport.W / tileSize))
	if rows <= 0 || cols <= 0 {
		return Geometry{}, ErrViewportTooSmall
	}

	return Geometry{
		TileSize: tileSize,
		Rows:     rows,
		Cols:     cols,
		Margin:   (viewport.W - float64(cols)*tileSize) / 2,
	}, nil
}

// CellOrigin returns the origin of the cell at (row, col). Row 0 is the
// bottom row.
func (g Geometry) CellOrigin(row, col int) layer.Point {
	return layer.Point{
		X: g.Margin + float64(col)*g.TileSize,
		Y: float64(row) * g.TileSize,
	}
}

// Cells returns Rows*Cols.
func (g Geometry) Cells() int {
	return g.Rows * g.Cols
}

// Tile is one rendered album.
type Tile struct {
	Album       string
	Layer       layer.ID
	Origin      layer.Point // in the parent's coordinate space
	Transform   layer.Transform
	DoubleSided bool
}

// wrapper is the Stage 1 container of a tile. During a flip it briefly
// holds both the outgoing and the incoming tile.
type wrapper struct {
	layer layer.ID
	frame layer.Rect
	tiles []*Tile
}

func (e *Engine) newTile(album string, origin layer.Point, doubleSided bool, t layer.Transform) *Tile {
	size := layer.Size{W: e.geom.TileSize, H: e.geom.TileSize}
	id := e.surface.NewLayer(layer.Props{
		Content:     album,
		Frame:       layer.Rect{Origin: origin, Size: size},
		DoubleSided: doubleSided,
		Transform:   t,
	})
	return &Tile{
		Album:       album,
		Layer:       id,
		Origin:      origin,
		Transform:   t,
		DoubleSided: doubleSided,
	}
}

// buildStage1Grid creates one wrapped tile per cell in row-major order,
// bottom row first. Consumes Rows*Cols albums.
func (e *Engine) buildStage1Grid() {
	root := e.surface.Root()
	size := layer.Size{W: e.geom.TileSize, H: e.geom.TileSize}
	perspective := layer.Perspective(e.cfg.PerspectiveDistance)

	e.wrappers = make([]*wrapper, 0, e.geom.Cells())
	for row := 0; row < e.geom.Rows; row++ {
		for col := 0; col < e.geom.Cols; col++ {
			tile := e.newTile(e.albums.Next(), layer.Point{}, false, layer.Identity())

			frame := layer.Rect{Origin: e.geom.CellOrigin(row, col), Size: size}
			w := &wrapper{
				layer: e.surface.NewLayer(layer.Props{
					Frame:             frame,
					SublayerTransform: perspective,
				}),
				frame: frame,
				tiles: []*Tile{tile},
			}

			e.surface.AddSublayer(w.layer, tile.Layer)
			e.surface.AddSublayer(root, w.layer)
			e.wrappers = append(e.wrappers, w)
		}
	}
}

// teardown removes every layer of the grid, cancels the pending flip and
// advances the epoch so that everything still in flight becomes stale.
func (e *Engine) teardown() {
	for _, w := range e.wrappers {
		e.surface.Remove(w.layer)
	}
	for _, t := range e.tiles {
		e.surface.Remove(t.Layer)
	}
	e.wrappers = nil
	e.tiles = nil

	if e.flipTimer != 0 {
		// A timer that could not be stopped is already on its way; keep its
		// record so the late delivery is recognized as stale.
		if e.timer.Cancel(e.flipTimer) {
			delete(e.timers, e.flipTimer)
		}
		e.flipTimer = 0
	}

	e.surface.SetSublayerTransform(e.surface.Root(), layer.Identity())
	e.epoch++
}

// liveTiles returns the number of tiles the grid currently tracks.
func (e *Engine) liveTiles() int {
	if e.stage == Stage2 {
		return len(e.tiles)
	}
	return len(e.wrappers)
}

// GridSettled reports whether Rows*Cols equals the number of live tiles.
// It holds after every build and after every completed row swap.
func (e *Engine) GridSettled() bool {
	return e.geom.Cells() == e.liveTiles()
}

// Tiles returns a copy of the Stage 2 tiles in grid order.
func (e *Engine) Tiles() []Tile {
	out := make([]Tile, len(e.tiles))
	for i, t := range e.tiles {
		out[i] = *t
	}
	return out
}
