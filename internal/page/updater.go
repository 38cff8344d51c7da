package page

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/srb2live/infoboard/internal/fetch"
	"github.com/srb2live/infoboard/serverinfo"
)

// Updater performs refresh cycles: fetch the server-info feed, build the
// replacement region content, apply it.
//
// Refresh is safe for concurrent use but deliberately does not serialise
// overlapping calls; each call applies its own complete snapshot and the
// later completion wins (see [Regions.Apply]).
type Updater struct {
	client    *fetch.Client
	regions   *Regions
	apiURL    string
	staticDir string
}

// NewUpdater creates an [Updater] writing into the given regions.
//
// apiURL is the base API URL ({apiURL}/server_info is fetched) and staticDir
// is the base URL for static image assets. Both are read-only after
// construction.
func NewUpdater(client *fetch.Client, regions *Regions, apiURL, staticDir string) *Updater {
	return &Updater{
		client:    client,
		regions:   regions,
		apiURL:    apiURL,
		staticDir: staticDir,
	}
}

// Refresh runs one fetch-and-render pass.
//
// On success the regions reflect exactly the fetched snapshot and the
// snapshot is returned for downstream consumers (store, callbacks). On any
// failure (transport, non-2xx, malformed JSON) an error is returned and the
// regions keep their previous content; there is no retry and no fallback
// content.
func (u *Updater) Refresh(ctx context.Context) (serverinfo.ServerInfo, error) {
	info, err := u.client.ServerInfo(ctx, u.apiURL)
	if err != nil {
		return serverinfo.ServerInfo{}, err
	}

	u.regions.Apply(BuildUpdate(info, u.staticDir))
	return info, nil
}

// BuildUpdate converts a server-info snapshot into region content.
//
// Player names and skins are HTML-escaped here; the map title and server
// name are passed through raw. The background is set only for a usable image
// identifier, so "None", empty and missing all leave it untouched.
func BuildUpdate(info serverinfo.ServerInfo, staticDir string) Update {
	rows := make([]PlayerRow, 0, len(info.Players))
	for _, p := range info.Players {
		rows = append(rows, PlayerRow{
			Name: html.EscapeString(p.Name),
			Skin: html.EscapeString(p.Skin),
		})
	}

	upd := Update{
		MapTitle:   info.Map.Name,
		ServerName: info.ServerName,
		Rows:       rows,
	}
	if info.Map.HasImage() {
		upd.Background = BackgroundURL(info.Map.Image, staticDir)
	}
	return upd
}

// BackgroundURL builds the CSS background-image value for a map image.
func BackgroundURL(image, staticDir string) string {
	return fmt.Sprintf("url('%s/img/%s')", strings.TrimRight(staticDir, "/"), image)
}
