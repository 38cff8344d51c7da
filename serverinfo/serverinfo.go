// Package serverinfo defines the wire types for the server-info feed.
//
// The feed is the JSON document returned by GET {api_url}/server_info. Every
// refresh produces a complete new [ServerInfo]; snapshots are never merged,
// and no identity is retained between refreshes.
package serverinfo

import "time"

// NoImage is the sentinel value the feed uses for a map with no background
// image set. It is distinct from an empty or missing image field, but both
// mean "leave the current background untouched".
const NoImage = "None"

// ServerInfo is one complete snapshot of the game server's state.
type ServerInfo struct {
	// ServerName is the display name of the game server.
	ServerName string `json:"servername"`

	// Version is the game version the server reports, if known.
	Version string `json:"version,omitempty"`

	// NumberOfPlayers is the current player count.
	NumberOfPlayers int `json:"number_of_players"`

	// MaxPlayers is the server's player slot limit.
	MaxPlayers int `json:"max_players"`

	// LevelTime is the time spent on the current map, in tics (35 per second).
	LevelTime int `json:"leveltime"`

	// LevelTimeString is LevelTime formatted as M:SS.CC.
	LevelTimeString string `json:"leveltime_string,omitempty"`

	// Map describes the map currently being played.
	Map MapInfo `json:"map"`

	// Players lists the connected players. Order is the server's order and
	// is preserved all the way to the rendered page.
	Players []Player `json:"players"`
}

// MapInfo describes the current map.
type MapInfo struct {
	// ID is the map number, when the map is known to the highscores database.
	ID int `json:"id,omitempty"`

	// Name is the map title. It is treated as trusted content and rendered
	// without escaping.
	Name string `json:"name"`

	// Image is the background image file name, [NoImage] when the server has
	// none set, or empty when unknown.
	Image string `json:"image,omitempty"`
}

// HasImage reports whether the map carries a usable background image
// identifier, i.e. one that is neither empty nor the [NoImage] sentinel.
func (m MapInfo) HasImage() bool {
	return m.Image != "" && m.Image != NoImage
}

// Player is one entry in the server's player table. Name and Skin come from
// the game server and must be HTML-escaped before rendering.
type Player struct {
	Name  string `json:"name"`
	Skin  string `json:"skin"`
	Score int    `json:"score,omitempty"`
	Time  int    `json:"time,omitempty"`
}

// Snapshot pairs a [ServerInfo] with the time it was fetched. It is the unit
// stored and streamed to page subscribers.
type Snapshot struct {
	Info      ServerInfo `json:"info"`
	FetchedAt time.Time  `json:"fetched_at"`
}
