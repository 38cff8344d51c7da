// Package server exposes the info page over HTTP.
//
// Three surfaces share one router: GET / renders the current page regions
// into the embedded template, GET /events streams snapshot replacements as
// Server-Sent Events, and the highscores API is mounted under its own
// prefix. The server shuts down gracefully when its context is cancelled.
package server
