// Package fetch provides the HTTP client that retrieves server-info
// snapshots from the highscores API.
//
// The client issues GET requests to {api_url}/server_info and decodes the
// JSON body into the serverinfo wire types. Failures are returned as explicit
// errors; the caller decides whether to log or ignore them.
package fetch
