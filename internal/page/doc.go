// Package page implements the info-page updater: one fetch-and-render pass
// that replaces the visible page regions from a single server-info snapshot.
//
// Regions stands in for the legacy page's element handles (map title, server
// name, players table, body background) and is injected into the Updater at
// construction. Player names and skins are HTML-escaped when rows are built;
// the map title and server name are trusted and written raw.
package page
