package page

import "sync"

// PlayerRow is one rendered row of the players table. Both cells hold
// HTML-escaped text, ready for raw insertion into the table body.
type PlayerRow struct {
	Name string
	Skin string
}

// Update is the outcome of one refresh cycle: the complete replacement
// content for the page regions. An empty Background means "leave the current
// background untouched", matching the legacy no-op for a missing or "None"
// image.
type Update struct {
	MapTitle   string
	ServerName string
	Rows       []PlayerRow
	Background string
}

// Snapshot is a copy of the current region contents, safe to render without
// holding any lock.
type Snapshot struct {
	MapTitle   string
	ServerName string
	Rows       []PlayerRow
	Background string
}

// Regions holds the mutable page regions. The legacy script kept these as
// module-level element lookups; here they are an explicit value constructed
// once and handed to both the updater (writer) and the HTTP server (reader).
//
// Apply replaces the whole snapshot under a single lock. There is no request
// sequencing: when two refreshes overlap, whichever Apply runs last wins,
// regardless of which refresh was issued first.
type Regions struct {
	mu         sync.RWMutex
	mapTitle   string
	serverName string
	rows       []PlayerRow
	background string
}

// NewRegions creates an empty set of page regions.
func NewRegions() *Regions {
	return &Regions{}
}

// Apply overwrites the map title, server name and player rows with the
// update's content, clearing any previous rows first. The background is only
// replaced when the update carries one.
func (r *Regions) Apply(u Update) {
	rows := make([]PlayerRow, len(u.Rows))
	copy(rows, u.Rows)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.mapTitle = u.MapTitle
	r.serverName = u.ServerName
	r.rows = rows
	if u.Background != "" {
		r.background = u.Background
	}
}

// Snapshot returns a copy of the current region contents.
func (r *Regions) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]PlayerRow, len(r.rows))
	copy(rows, r.rows)

	return Snapshot{
		MapTitle:   r.mapTitle,
		ServerName: r.serverName,
		Rows:       rows,
		Background: r.background,
	}
}
