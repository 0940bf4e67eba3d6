package engine

// Stats is a snapshot of the engine for hosts and scenario traces.
type Stats struct {
	Stage             Stage   `json:"stage"`
	Epoch             Epoch   `json:"epoch"`
	Rows              int     `json:"rows"`
	Cols              int     `json:"cols"`
	TileSize          float64 `json:"tile_size"`
	Tiles             int     `json:"tiles"`
	InflightRotations int     `json:"inflight_rotations"`
	Flips             int     `json:"flips"`
	RowsSpawned       int     `json:"rows_spawned"`
	TilesRetired      int     `json:"tiles_retired"`
}

// Stats returns a snapshot of the current state.
func (e *Engine) Stats() Stats {
	return Stats{
		Stage:             e.stage,
		Epoch:             e.epoch,
		Rows:              e.geom.Rows,
		Cols:              e.geom.Cols,
		TileSize:          e.geom.TileSize,
		Tiles:             e.liveTiles(),
		InflightRotations: e.inflight,
		Flips:             e.flips,
		RowsSpawned:       e.rowsSpawned,
		TilesRetired:      e.tilesRetired,
	}
}
