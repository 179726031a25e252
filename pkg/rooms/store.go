package rooms

import "context"

// Store tracks which connections are members of which room.
//
// Rooms exist implicitly: the first Join creates one, and the moment its
// last member leaves it must disappear. A room identifier whose member set
// is empty is indistinguishable from one that was never joined.
type Store interface {
	// Join adds id to room, creating the room if needed. It returns the
	// member set after the join and whether id was newly added (false on
	// a re-join). Join is atomic with room creation.
	Join(ctx context.Context, room, id string) (members []string, joined bool, err error)
	// Leave removes id from room, deleting the room atomically when it
	// empties. Unknown room/member pairs are a no-op.
	Leave(ctx context.Context, room, id string) error
	// Members reports the current member set; empty for unknown rooms.
	Members(ctx context.Context, room string) ([]string, error)
	// Reset discards all rooms.
	Reset(ctx context.Context) error
}
