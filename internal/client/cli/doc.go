// Package cli provides the interactive fashion finder command-line client.
//
// The REPL is a thin consumer of the application store: every command maps to
// one store or session action, and the prompt reflects the signed-in user,
// the current board and whether any action is still in flight.
//
// Typical flow: login, scrape or open a board, upload personal items, select
// some of them and run a match.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// the input is exhausted. See App, NewApp and runREPL for details.
package cli
