// Package engine implements the album wall animation orchestrator.
//
// The engine owns a grid of album tiles and walks it through two stages:
//
//  1. Stage 1: each tile sits in its own wrapper layer. A timer picks one
//     wrapper at random and flips its tile over to the next album, then
//     re-arms itself.
//  2. Stage 2: once requested, the next finished flip rebuilds the grid as
//     free-standing tiles, scatters them in depth and scrolls them upward
//     forever. A tile leaving the top is retired; the leftmost tile of each
//     row spawns a replacement row at the bottom. Horizontal drags rotate
//     the whole field about the vertical axis, with at most two rotations
//     in flight.
//
// ARCHITECTURE:
//
// Single actor. Every method of Engine is called from one goroutine and the
// engine never re-enters itself: it schedules timers and commits animation
// transactions, keeps the returned handles, and reacts when the scheduler
// later calls OnTimerFired or OnAnimationComplete with those handles. Loop
// provides that goroutine when events come from several sources.
//
// Epochs. A structural reset (viewport change) tears the grid down and
// increments the epoch. Every pending record carries the epoch it was
// created in; notifications for an older epoch are dropped without side
// effects.
//
// Invariants. Violations of the grid bookkeeping are programming errors and
// panic with *InvariantError. Misuse of the host API returns an error.
package engine
