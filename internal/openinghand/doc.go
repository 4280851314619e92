// Package openinghand implements the opening-hand draw simulator: deck pool
// resolution, expansion, shuffling, and the signed state-transfer protocol
// that lets the stateless server run a multi-step draw interaction.
//
// All game state (the shuffled deck order and the draw cursor) lives in a
// signed, time-limited token held by the client; nothing is stored on the
// server. A consequence of that design: two draw requests issued
// concurrently against the same token both decode the same cursor, both
// return deck[index], and both mint a successor token at index+1. The
// client ends up with two diverging tokens and one card was drawn twice
// while another was skipped. Clients get consistent draws only by waiting
// for each response before sending the next request.
package openinghand
