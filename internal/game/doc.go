// Package game drives blackjack rounds for a presentation layer.
//
// An Engine owns one blackjack.Round at a time and only accepts commands
// that are legal in the round's current phase:
//
//	e := game.NewEngine(game.WithSeed(42))
//	view, err := e.StartRound()
//	if view.CanAct() {
//	    _, view, err = e.Hit()
//	}
//	view, err = e.Stand()
//
// Out-of-sequence commands fail with ErrInvalidPhase and leave the round
// untouched. Every state change is published on the engine's EventBus
// after the engine's lock is released, so subscribers may read the engine
// from OnEvent.
//
// Views returned by the engine mask the dealer's hole card until it is
// revealed. A player bust reveals the hole card and resolves the round at
// once; the dealer does not draw.
package game
