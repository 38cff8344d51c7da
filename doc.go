// Package infoboard serves a live info page for an SRB2 game server.
//
// An InfoBoard periodically fetches the server-info feed, renders the map
// title, server name, player table and background image into its page
// regions, and serves the page over HTTP together with an SSE stream and the
// highscores JSON API.
//
// Create an instance with [New] and functional options, then run it with
// [InfoBoard.Start]; cancel the context to shut down gracefully.
package infoboard
