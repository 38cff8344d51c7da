// Package api serves the highscores JSON API.
//
// Routes live under /highscores/api and mirror the feed the info page
// consumes: map and record lookups backed by the highscores store, and
// /server_info backed by a live UDP query of the game server. Failures are
// reported as {"error": message} bodies with a matching status code.
package api
