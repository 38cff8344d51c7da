// Package dashboard provides the embedded info page assets.
//
// The page template is compiled into the binary with the embed directive so
// the board deploys as a single file. The server package renders it at the
// root path; library users never need this package directly.
package dashboard

import "embed"

// Assets is an embedded filesystem containing the info page.
//
// The filesystem structure is:
//
//	assets/
//	  info.html    - Info page template with inline CSS and the live script
//
// The template is rendered server-side with the current page regions; the
// inline script then keeps the page current from the /events stream.
//
//go:embed assets/*
var Assets embed.FS
