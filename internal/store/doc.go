// Package store provides storage for the latest server-info snapshot with a
// pub/sub mechanism for pushing replacements to connected page clients.
//
// The store holds exactly one snapshot. Every update replaces it wholesale;
// nothing is merged and no history is kept, mirroring the refresh contract of
// the info page.
package store
