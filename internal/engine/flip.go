package engine

import (
	"math"
	"time"

	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/anim"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/config"
	"github.com/saurabhsharan/wwdc-2006-core-animation/internal/layer"
)

func (e *Engine) scheduleFlip(delay time.Duration) {
	h := e.timer.After(delay)
	e.flipTimer = h
	e.timers[h] = timerRecord{kind: kindFlipTimer, epoch: e.epoch}
}

// performFlip turns one randomly chosen wrapper over to the next album.
func (e *Engine) performFlip() {
	// Snapshot the selectable range before drawing.
	n := len(e.wrappers)
	if n == 0 {
		return
	}
	w := e.wrappers[e.rng.IntN(n)]
	front := w.tiles[0]

	back := e.newTile(e.albums.Next(), layer.Point{}, false, layer.RotationY(math.Pi))
	e.surface.AddSublayer(w.layer, back.Layer)
	w.tiles = append(w.tiles, back)

	e.commit(flipTransaction(w, front, back, e.cfg), completion{
		kind:    kindFlipDone,
		wrapper: w,
		front:   front,
	})
	e.flips++

	e.logger.Debug("flip started",
		"front_album", front.Album,
		"back_album", back.Album,
		"epoch", uint64(e.epoch),
	)
}

// flipTransaction pairs a camera dolly on the wrapper with a half turn of
// both tiles, so the back tile ends up facing the viewer.
func flipTransaction(w *wrapper, front, back *Tile, cfg config.Config) anim.Transaction {
	d := config.Seconds(cfg.FlipDuration)
	s := cfg.FlipScaleFactor

	keyframes := func(ts ...layer.Transform) []anim.Value {
		vs := make([]anim.Value, len(ts))
		for i, t := range ts {
			vs[i] = anim.Value{Transform: t}
		}
		return vs
	}

	return anim.Transaction{Items: []anim.Item{
		{Layer: w.layer, Animation: anim.Animation{
			Property:            anim.PropTransform,
			Keyframes:           keyframes(layer.Identity(), layer.Scaling(s, s, s), layer.Identity()),
			Easing:              anim.EaseInOut,
			Fill:                anim.FillForwards,
			RemovedOnCompletion: true,
			Duration:            d,
		}},
		{Layer: front.Layer, Animation: anim.Animation{
			Property:  anim.PropTransform,
			Keyframes: keyframes(layer.RotationY(0), layer.RotationY(-math.Pi/2), layer.RotationY(-math.Pi)),
			Easing:    anim.EaseIn,
			Fill:      anim.FillForwards,
			Duration:  d,
		}},
		{Layer: back.Layer, Animation: anim.Animation{
			Property:  anim.PropTransform,
			Keyframes: keyframes(layer.RotationY(math.Pi), layer.RotationY(math.Pi/2), layer.RotationY(2*math.Pi)),
			Easing:    anim.EaseIn,
			Fill:      anim.FillForwards,
			Duration:  d,
		}},
	}}
}

// onFlipCycleCompleted drops the outgoing tile, then either rebuilds for
// Stage 2 or re-arms the flip timer.
func (e *Engine) onFlipCycleCompleted(c completion) {
	w := c.wrapper
	e.surface.Remove(c.front.Layer)
	for i, t := range w.tiles {
		if t == c.front {
			w.tiles = append(w.tiles[:i], w.tiles[i+1:]...)
			break
		}
	}

	if e.stage == TransitioningToStage2 {
		e.rebuildForStage2()
		return
	}
	e.scheduleFlip(config.Seconds(e.cfg.FlipInterval))
}
