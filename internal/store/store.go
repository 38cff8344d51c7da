package store

import "github.com/srb2live/infoboard/serverinfo"

// Store defines storage for the current server-info snapshot.
//
// Implementations must be safe for concurrent access. The pub/sub mechanism
// lets real-time consumers (the SSE stream) receive each replacement as it
// lands.
type Store interface {
	// Update replaces the current snapshot and notifies all subscribers.
	Update(snap serverinfo.Snapshot)

	// Latest returns the current snapshot. ok is false before the first
	// update has arrived.
	Latest() (snap serverinfo.Snapshot, ok bool)

	// Subscribe returns a channel that receives each new snapshot. The
	// channel is buffered; slow consumers may miss snapshots. Callers must
	// call Unsubscribe when done.
	Subscribe() <-chan serverinfo.Snapshot

	// Unsubscribe removes a subscription and closes its channel. Safe to
	// call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan serverinfo.Snapshot)
}
