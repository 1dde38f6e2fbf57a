// Package game implements the four-player tile game engine.
//
// The main type is Game, which owns all mutable state: the wall, each
// player's hand and revealed melds, the discard pile, turn order and the
// append-only history. Every mutation goes through Game's methods and is
// atomic; a failed call leaves the state exactly as it was.
//
// # Basic Usage
//
// Create and drive a game:
//
//	g, err := game.NewGame(randutil.New(42), []string{"Aki", "Ben", "Cho", "Dee"})
//	// Current player draws and discards...
//	drawn, ok, err := g.Draw(g.CurrentPlayer())
//	claims, err := g.Discard(g.CurrentPlayer(), 0)
//	// Claims interrupt turn order when accepted...
//	if len(claims) > 0 {
//	    err = g.AcceptClaim(claims[0])
//	}
//
// # Deterministic Testing
//
// All randomness is injected. A fixed seed reproduces the whole game, and
// WithWall pins the exact deal:
//
//	g, _ := game.NewGame(randutil.New(42), names)
//	g, _ = game.NewGame(rng, names, game.WithWall(tile.NewWallFromTiles(fixed)))
//
// # Architecture
//
// Game delegates hand analysis to the evaluator package and emits typed
// events on an EventBus after every mutation. Automated seats implement the
// Agent interface: they receive a read-only TableView and return a Decision,
// and the Runner applies it through the same mutator API a human-controlled
// seat would use.
package game
